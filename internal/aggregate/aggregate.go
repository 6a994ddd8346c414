package aggregate

import (
	"time"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

const (
	forkRecommendation     = "Verify fork has meaningful changes compared to its parent"
	originalRecommendation = "Original repository with substantial commit history"

	substantialHistoryCommits = 50
)

// Sections holds the analyzer sections of one repository; nil means not selected
type Sections struct {
	Originality *models.Section[models.OriginalityResult]
	Activity    *models.Section[models.ActivityResult]
	Security    *models.Section[models.SecurityResult]
	ProofOfWork *models.Section[models.PowResult]
}

// Build merges analyzer sections into a report scored by the given strategy
func Build(snap *models.RepoSnapshot, modules []string, sections Sections, strategy Strategy, generatedAt time.Time) *models.Report {
	report := &models.Report{
		Repository:      models.SummaryFromSnapshot(snap),
		Modules:         modules,
		Originality:     sections.Originality,
		Activity:        sections.Activity,
		Security:        sections.Security,
		ProofOfWork:     sections.ProofOfWork,
		ScoringStrategy: strategy.Name(),
		RedFlags:        []models.RedFlag{},
		Recommendations: []string{},
		GeneratedAt:     generatedAt,
	}

	if report.Originality.OK() {
		r := report.Originality.Result
		addFindings(report, models.ModuleOriginality, r.Flags, r.Recommendations)
	}
	if report.Activity.OK() {
		r := report.Activity.Result
		addFindings(report, models.ModuleActivity, r.Flags, r.Recommendations)
	}
	if report.Security.OK() {
		r := report.Security.Result
		addFindings(report, models.ModuleSecurity, r.Flags, r.Recommendations)
	}
	if report.ProofOfWork.OK() {
		r := report.ProofOfWork.Result
		addFindings(report, models.ModulePow, r.Flags, r.Recommendations)
	}

	if snap.IsFork {
		report.Recommendations = append(report.Recommendations, forkRecommendation)
	} else if report.Activity.OK() && report.Activity.Result.TotalCommits > substantialHistoryCommits {
		report.Recommendations = append(report.Recommendations, originalRecommendation)
	}

	report.InnovationScore = strategy.Score(report)
	return report
}

func addFindings(report *models.Report, source string, flags, recommendations []string) {
	for _, msg := range flags {
		report.RedFlags = append(report.RedFlags, models.RedFlag{
			Severity: ClassifySeverity(msg),
			Source:   source,
			Message:  msg,
		})
	}
	report.Recommendations = append(report.Recommendations, recommendations...)
}
