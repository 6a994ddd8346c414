package models

import "time"

// Severity classifies a red flag
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// Analyzer module names
const (
	ModuleOriginality = "originality"
	ModuleActivity    = "activity"
	ModuleSecurity    = "security"
	ModulePow         = "pow"
)

// AllModules lists every analyzer in report order
var AllModules = []string{ModuleOriginality, ModuleActivity, ModuleSecurity, ModulePow}

// RedFlag is a severity-tagged warning derived from analyzer output
type RedFlag struct {
	Severity Severity `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

// RepoSummary is the identity block of a report
type RepoSummary struct {
	FullName    string `json:"full_name"`
	URL         string `json:"html_url"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Watchers    int    `json:"watchers"`
	Language    string `json:"language,omitempty"`
	License     string `json:"license,omitempty"`
	IsFork      bool   `json:"is_fork"`
	Parent      string `json:"parent,omitempty"`
}

// Report is the assessment produced for one repository
type Report struct {
	Repository      RepoSummary                 `json:"repository"`
	Modules         []string                    `json:"modules"`
	Originality     *Section[OriginalityResult] `json:"originality,omitempty"`
	Activity        *Section[ActivityResult]    `json:"activity,omitempty"`
	Security        *Section[SecurityResult]    `json:"security,omitempty"`
	ProofOfWork     *Section[PowResult]         `json:"proof_of_work,omitempty"`
	InnovationScore int                         `json:"innovation_score"`
	ScoringStrategy string                      `json:"scoring_strategy"`
	RedFlags        []RedFlag                   `json:"red_flags"`
	Recommendations []string                    `json:"recommendations"`
	GeneratedAt     time.Time                   `json:"generated_at"`
}

// SummaryFromSnapshot builds the identity block of a report
func SummaryFromSnapshot(s *RepoSnapshot) RepoSummary {
	summary := RepoSummary{
		FullName:    s.Ref.FullName(),
		URL:         s.URL,
		Description: s.Description,
		Stars:       s.StarsCount,
		Forks:       s.ForksCount,
		Watchers:    s.WatchersCount,
		Language:    s.Language,
		License:     s.License,
		IsFork:      s.IsFork,
	}
	if s.Parent != nil {
		summary.Parent = s.Parent.FullName()
	}
	return summary
}
