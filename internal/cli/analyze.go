package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/repo-vetter/internal/aggregate"
	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	"github.com/Kamar-Folarin/repo-vetter/internal/engine"
	"github.com/Kamar-Folarin/repo-vetter/internal/export"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

func (a *app) analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <repo>...",
		Short: "Analyze one or more repositories.",
		Long: `Analyze fetches each repository from GitHub, runs the selected analyzers and
prints the reports. Several repositories are analyzed as a batch and shown
side by side.

Repositories may be given as owner/repo, https://github.com/owner/repo or
git@github.com:owner/repo.git.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.Context(), cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringSlice("modules", nil, "analyzers to run (originality, activity, security, pow); default all")
	flags.String("scoring", aggregate.DefaultStrategy, fmt.Sprintf("scoring strategy %v", aggregate.StrategyNames()))
	flags.StringP("output", "o", string(export.FormatTable), fmt.Sprintf("output format %v", export.Formats))
	flags.String("out-file", "", "write output to this file instead of stdout")
	flags.Int("workers", 0, "concurrent repository analyses in batch mode")
	flags.Int("max-batch-size", 0, "maximum number of repositories per run")
	flags.Duration("timeout", 5*time.Minute, "overall time limit")

	defaults := config.DefaultAnalysisConfig()
	flags.Int("commit-window", defaults.CommitWindow, "most recent commits fetched per repository")
	flags.Int("commit-since-days", defaults.CommitSinceDays, "only fetch commits newer than this many days")
	flags.Int("sample-max-files", defaults.Sampling.MaxFiles, "source files sampled for the proof-of-work scan")
	flags.Int("sample-max-extra-dirs", defaults.Sampling.MaxExtraDirs, "non-priority directories sampled")
	flags.String("sample-max-file-size", humanize.IBytes(uint64(defaults.Sampling.MaxFileSize)), "bytes kept per sampled file (e.g. 50KiB)")
	flags.Float64("requests-per-second", config.DefaultGitHubConfig().RequestsPerSecond, "GitHub API request rate")
	_ = a.v.BindPFlags(flags)

	// The server reads the same limits without the REPOVET_ prefix
	for key, env := range map[string]string{
		"commit-window":         "COMMIT_WINDOW",
		"commit-since-days":     "COMMIT_SINCE_DAYS",
		"sample-max-files":      "SAMPLE_MAX_FILES",
		"sample-max-extra-dirs": "SAMPLE_MAX_EXTRA_DIRS",
		"sample-max-file-size":  "SAMPLE_MAX_FILE_SIZE",
		"requests-per-second":   "GITHUB_REQUESTS_PER_SECOND",
	} {
		_ = a.v.BindEnv(key, "REPOVET_"+strings.ReplaceAll(strings.ToUpper(key), "-", "_"), env)
	}
	return cmd
}

func (a *app) runAnalyze(ctx context.Context, cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(a.v.GetString("output"))
	if err != nil {
		return err
	}
	outFile := a.v.GetString("out-file")
	if format == export.FormatParquet && outFile == "" {
		return fmt.Errorf("parquet output requires --out-file")
	}

	cfg, err := a.resolveConfig()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	progress := engine.WithProgress(func(p models.BatchProgress) {
		if p.Completed > 0 {
			cmd.PrintErrf("Analyzed %d/%d repositories (%d failed)\n", p.Completed, p.Total, p.Failed)
		}
	})
	eng := engine.New(a.newSource(cfg.GitHub, a.logger), cfg.Analysis, a.logger, progress)
	modules := a.v.GetStringSlice("modules")
	scoring := a.v.GetString("scoring")

	var reports []*models.Report
	var failed int
	if len(args) == 1 {
		report, err := eng.Analyze(ctx, engine.Request{Repo: args[0], Modules: modules, Scoring: scoring})
		if err != nil {
			return err
		}
		reports = append(reports, report)
	} else {
		items, err := eng.AnalyzeBatch(ctx, engine.BatchRequest{Repos: args, Modules: modules, Scoring: scoring})
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Report == nil {
				failed++
				cmd.PrintErrf("%s: %s\n", item.Repo, item.Error)
				continue
			}
			reports = append(reports, item.Report)
		}
		if len(reports) == 0 {
			return fmt.Errorf("all %d repositories failed", failed)
		}
	}

	return writeOutput(cmd.OutOrStdout(), outFile, format, reports)
}

func writeOutput(stdout io.Writer, outFile string, format export.Format, reports []*models.Report) error {
	if outFile == "" {
		return export.Write(stdout, format, reports)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(f, format, reports); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Wrote %s to %s\n", format, outFile)
	return err
}
