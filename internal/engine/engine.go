package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-vetter/internal/aggregate"
	"github.com/Kamar-Folarin/repo-vetter/internal/batch"
	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	apperrors "github.com/Kamar-Folarin/repo-vetter/internal/errors"
	"github.com/Kamar-Folarin/repo-vetter/internal/github"
	"github.com/Kamar-Folarin/repo-vetter/internal/metrics"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
	"github.com/Kamar-Folarin/repo-vetter/internal/sampler"
	"github.com/Kamar-Folarin/repo-vetter/internal/utils"
)

const releaseLimit = 10

// Request asks for the analysis of one repository
type Request struct {
	Repo    string
	Modules []string
	Scoring string
}

// BatchRequest asks for the analysis of several repositories with the same settings
type BatchRequest struct {
	Repos   []string
	Modules []string
	Scoring string
}

// Engine turns repository identifiers into reports
type Engine struct {
	source  DataSource
	sampler *sampler.Sampler
	cfg     *config.AnalysisConfig
	logger  *logrus.Logger
	modules map[string]Module
	metrics *metrics.Recorder
	now     func() time.Time

	onProgress func(models.BatchProgress)
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMetrics attaches a metrics recorder
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithProgress registers a callback for batch progress updates. Calls are
// sequential and the last one carries the final counts.
func WithProgress(fn func(models.BatchProgress)) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// WithModule replaces the analyzer registered under m.Name
func WithModule(m Module) Option {
	return func(e *Engine) {
		e.modules[m.Name] = m
	}
}

// New creates an engine reading from source
func New(source DataSource, cfg *config.AnalysisConfig, logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		sampler: sampler.New(source, cfg.Sampling, logger),
		cfg:     cfg,
		logger:  logger,
		modules: make(map[string]Module),
		now:     time.Now,
	}
	for _, m := range DefaultModules() {
		e.modules[m.Name] = m
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze validates the request and produces the report of one repository
func (e *Engine) Analyze(ctx context.Context, req Request) (*models.Report, error) {
	ref, err := utils.ParseRepoInput(req.Repo)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), err)
	}
	modules, err := ResolveModules(req.Modules)
	if err != nil {
		return nil, err
	}
	strategy, err := aggregate.Lookup(req.Scoring)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), err)
	}
	return e.analyzeRef(ctx, ref, modules, strategy)
}

// AnalyzeBatch analyzes every repository of the request on the worker pool.
// Items come back in request order; a failed unit carries its error inline.
func (e *Engine) AnalyzeBatch(ctx context.Context, req BatchRequest) ([]models.BatchItem, error) {
	if len(req.Repos) == 0 {
		return nil, apperrors.NewValidationError("batch contains no repositories", nil)
	}
	if len(req.Repos) > e.cfg.MaxBatchSize {
		return nil, apperrors.NewBatchTooLargeError(len(req.Repos), e.cfg.MaxBatchSize)
	}

	refs := make([]models.RepoRef, len(req.Repos))
	for i, raw := range req.Repos {
		ref, err := utils.ParseRepoInput(raw)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), err)
		}
		refs[i] = ref
	}
	modules, err := ResolveModules(req.Modules)
	if err != nil {
		return nil, err
	}
	strategy, err := aggregate.Lookup(req.Scoring)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), err)
	}

	items := make([]models.BatchItem, len(refs))
	processor := batch.NewProcessor(e.cfg.Workers)
	stop := e.watchProgress(processor.GetProgress())
	err = processor.ProcessItems(ctx, len(refs), func(ctx context.Context, i int) error {
		items[i].Repo = refs[i].FullName()
		report, err := e.analyzeRef(ctx, refs[i], modules, strategy)
		if err != nil {
			items[i].Error = err.Error()
			return err
		}
		items[i].Report = report
		return nil
	})
	final := stop()
	logger := e.logger.WithFields(logrus.Fields{
		"total":       final.Total,
		"completed":   final.Completed,
		"failed":      final.Failed,
		"duration_ms": final.LastUpdateTime.Sub(final.StartTime).Milliseconds(),
	})
	if err != nil {
		logger.WithError(err).Warn("Batch analysis aborted")
		return nil, err
	}
	logger.Info("Batch analysis completed")
	return items, nil
}

// watchProgress forwards processor updates to the logger and the progress
// callback until the returned stop function is called. stop drains the last
// pending update and returns the final progress.
func (e *Engine) watchProgress(updates <-chan models.BatchProgress) func() models.BatchProgress {
	done := make(chan struct{})
	finished := make(chan struct{})
	var last models.BatchProgress

	report := func(p models.BatchProgress) {
		last = p
		e.logger.WithFields(logrus.Fields{
			"total":     p.Total,
			"completed": p.Completed,
			"failed":    p.Failed,
		}).Debug("Batch progress")
		if e.onProgress != nil {
			e.onProgress(p)
		}
	}

	go func() {
		defer close(finished)
		for {
			select {
			case p := <-updates:
				report(p)
			case <-done:
				return
			}
		}
	}()

	return func() models.BatchProgress {
		close(done)
		<-finished
		select {
		case p := <-updates:
			report(p)
		default:
		}
		return last
	}
}

func (e *Engine) analyzeRef(ctx context.Context, ref models.RepoRef, modules []string, strategy aggregate.Strategy) (*models.Report, error) {
	start := time.Now()
	logger := e.logger.WithFields(logrus.Fields{
		"owner": ref.Owner,
		"repo":  ref.Name,
	})
	logger.Info("Starting repository analysis")

	report, err := e.runUnit(ctx, ref, modules, strategy, logger)
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.ObserveAnalysis(metrics.StatusFailed, elapsed)
		logger.WithError(err).Error("Repository analysis failed")
		return nil, err
	}

	e.metrics.ObserveAnalysis(metrics.StatusSuccess, elapsed)
	e.metrics.ObserveScore(report.ScoringStrategy, report.InnovationScore)
	logger.WithFields(logrus.Fields{
		"innovation_score": report.InnovationScore,
		"red_flags":        len(report.RedFlags),
		"duration_ms":      elapsed.Milliseconds(),
	}).Info("Repository analysis completed")
	return report, nil
}

func (e *Engine) runUnit(ctx context.Context, ref models.RepoRef, modules []string, strategy aggregate.Strategy, logger *logrus.Entry) (*models.Report, error) {
	snap, err := e.source.GetRepository(ctx, ref)
	if err != nil {
		return nil, translateError(ref, err)
	}

	now := e.now()
	in := e.collect(ctx, snap, modules, now)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, inputErr := range []error{in.CommitsErr, in.ContributorsErr, in.LanguagesErr, in.IssuesErr, in.RootErr, in.FilesErr, in.ComparisonErr, in.ReleasesErr, in.TrackerErr} {
		if isTerminal(inputErr) {
			return nil, translateError(ref, inputErr)
		}
	}

	sections := e.runAnalyzers(in, modules, logger)
	return aggregate.Build(snap, modules, sections, strategy, now), nil
}

// collect fetches the inputs the selected modules need, concurrently.
// Each fetch writes only its own fields of the input.
func (e *Engine) collect(ctx context.Context, snap *models.RepoSnapshot, modules []string, now time.Time) *models.AnalysisInput {
	in := &models.AnalysisInput{Snapshot: snap, Now: now}
	ref := snap.Ref
	var wg sync.WaitGroup

	fetch := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if contains(modules, models.ModuleOriginality) && snap.IsFork && snap.Parent != nil {
		fetch(func() {
			in.Comparison, in.ComparisonErr = e.source.CompareWithParent(ctx, snap)
		})
	}

	if contains(modules, models.ModuleActivity) {
		fetch(func() {
			since := now.AddDate(0, 0, -e.cfg.CommitSinceDays)
			in.Commits, in.CommitsErr = e.source.ListCommits(ctx, ref, since, e.cfg.CommitWindow)
		})
		fetch(func() {
			in.Contributors, in.ContributorsErr = e.source.ListContributors(ctx, ref)
		})
	}

	if contains(modules, models.ModuleSecurity) {
		fetch(func() {
			in.SecurityIssues, in.IssuesErr = e.source.ListSecurityIssues(ctx, ref)
		})
		fetch(func() {
			in.Languages, in.LanguagesErr = e.source.GetLanguages(ctx, ref)
		})
		fetch(func() {
			in.Releases, in.ReleasesErr = e.source.ListReleases(ctx, ref, releaseLimit)
		})
		fetch(func() {
			in.Tracker, in.TrackerErr = e.source.GetTrackerStats(ctx, ref)
		})
	}

	// The root listing feeds both manifest detection and file sampling
	switch {
	case contains(modules, models.ModulePow):
		fetch(func() {
			sample, err := e.sampler.Collect(ctx, ref)
			if err != nil {
				in.FilesErr, in.RootErr = err, err
				return
			}
			in.Files = sample.Files
			in.Manifests = sampler.DetectManifests(sample.Root)
			in.ChangelogFiles = sampler.DetectChangelogs(sample.Root)
		})
	case contains(modules, models.ModuleSecurity):
		fetch(func() {
			root, err := e.source.ListDirectory(ctx, ref, "")
			if err != nil {
				in.RootErr = err
				return
			}
			in.Manifests = sampler.DetectManifests(root)
			in.ChangelogFiles = sampler.DetectChangelogs(root)
		})
	}

	wg.Wait()
	return in
}

type moduleOutcome struct {
	result interface{}
	err    error
}

// runAnalyzers runs every selected module in its own goroutine and converts
// errors and panics into failed sections.
func (e *Engine) runAnalyzers(in *models.AnalysisInput, modules []string, logger *logrus.Entry) aggregate.Sections {
	outcomes := make([]moduleOutcome, len(modules))
	var wg sync.WaitGroup

	for i, name := range modules {
		mod, ok := e.modules[name]
		if !ok {
			outcomes[i].err = fmt.Errorf("module %s is not registered", name)
			continue
		}
		wg.Add(1)
		go func(i int, mod Module) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = moduleOutcome{err: fmt.Errorf("panic: %v", r)}
				}
			}()
			start := time.Now()
			result, err := mod.Run(in)
			outcomes[i] = moduleOutcome{result: result, err: err}
			logger.WithFields(logrus.Fields{
				"module":      mod.Name,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Debug("Analyzer finished")
		}(i, mod)
	}
	wg.Wait()

	var sections aggregate.Sections
	for i, name := range modules {
		out := outcomes[i]
		ok := false
		switch name {
		case models.ModuleOriginality:
			sections.Originality, ok = section[models.OriginalityResult](name, out)
		case models.ModuleActivity:
			sections.Activity, ok = section[models.ActivityResult](name, out)
		case models.ModuleSecurity:
			sections.Security, ok = section[models.SecurityResult](name, out)
		case models.ModulePow:
			sections.ProofOfWork, ok = section[models.PowResult](name, out)
		}
		if !ok {
			e.metrics.ObserveAnalyzerFailure(name)
			entry := logger.WithField("module", name)
			if out.err != nil {
				entry = entry.WithError(out.err)
			}
			entry.Warn("Analyzer failed, recording error section")
		}
	}
	return sections
}

func section[T any](name string, out moduleOutcome) (*models.Section[T], bool) {
	if out.err == nil {
		if result, ok := out.result.(*T); ok && result != nil {
			return models.Succeeded(result), true
		}
	}
	return models.FailedSection[T](name), false
}

// isTerminal reports whether an auxiliary fetch error must abort the unit
func isTerminal(err error) bool {
	if err == nil {
		return false
	}
	return github.IsRateLimitError(err) || github.IsUnauthorizedError(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// translateError maps data source errors onto the application error taxonomy
func translateError(ref models.RepoRef, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("analysis of %s aborted: %w", ref.FullName(), err)
	case github.IsNotFoundError(err):
		return apperrors.NewRepositoryNotFoundError(ref.Owner, ref.Name)
	case github.IsRateLimitError(err):
		return apperrors.NewRateLimitError("GitHub API rate limit exhausted", err)
	case github.IsUnauthorizedError(err):
		return apperrors.NewUnauthorizedError("GitHub API rejected the credentials", err)
	default:
		return apperrors.NewUpstreamError(fmt.Sprintf("failed to fetch %s", ref.FullName()), err)
	}
}
