package models

import "time"

// Risk is a coarse risk level derived from a score
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// OriginalityResult estimates how much of a fork is genuinely authored
type OriginalityResult struct {
	IsFork           bool     `json:"is_fork"`
	Parent           string   `json:"parent,omitempty"`
	OriginalityScore int      `json:"originality_score"`
	UniqueCommits    int      `json:"unique_commits"`
	TotalFiles       int      `json:"total_files"`
	ModifiedFiles    int      `json:"modified_files"`
	Risk             Risk     `json:"risk"`
	Message          string   `json:"message"`
	Flags            []string `json:"flags"`
	Recommendations  []string `json:"recommendations"`
}

// ActivityResult describes commit cadence and contributor health
type ActivityResult struct {
	TotalCommits        int                 `json:"total_commits"`
	LifetimeCommits     int                 `json:"lifetime_commits"`
	CommitsPerWeek      float64             `json:"commits_per_week"`
	LastCommitDate      *time.Time          `json:"last_commit_date,omitempty"`
	DaysSinceLastCommit int                 `json:"days_since_last_commit"`
	ContributorCount    int                 `json:"contributor_count"`
	TopContributors     []ContributorRecord `json:"top_contributors"`
	CommitHistory       []WeeklyCommits     `json:"commit_history"`
	HealthScore         int                 `json:"health_score"`
	Popularity          PopularityResult    `json:"popularity"`
	Flags               []string            `json:"flags"`
	Recommendations     []string            `json:"recommendations"`
}

// PopularityResult compares star, fork and watcher counts against fixed benchmarks
type PopularityResult struct {
	Stars                 int  `json:"stars"`
	Forks                 int  `json:"forks"`
	Watchers              int  `json:"watchers"`
	BelowStarBenchmark    bool `json:"below_star_benchmark"`
	BelowForkBenchmark    bool `json:"below_fork_benchmark"`
	BelowWatcherBenchmark bool `json:"below_watcher_benchmark"`
}

// ReleaseSummary describes published releases and changelog presence
type ReleaseSummary struct {
	Checked          bool     `json:"checked"`
	Count            int      `json:"count"`
	Latest           string   `json:"latest,omitempty"`
	ChangelogFiles   []string `json:"changelog_files,omitempty"`
	MissingChangelog bool     `json:"missing_changelog"`
}

// SecurityIssueSummary counts security-labeled issues by state
type SecurityIssueSummary struct {
	Total  int                   `json:"total"`
	Open   int                   `json:"open"`
	Closed int                   `json:"closed"`
	Issues []SecurityIssueRecord `json:"issues,omitempty"`
}

// LanguageShare is one language's share of the repository's code bytes
type LanguageShare struct {
	Name    string  `json:"name"`
	Bytes   int64   `json:"bytes"`
	Percent float64 `json:"percent"`
}

// SecurityResult describes the repository's security posture
type SecurityResult struct {
	SecurityIssues        SecurityIssueSummary `json:"security_issues"`
	Languages             []LanguageShare      `json:"languages"`
	HasSolidityCode       bool                 `json:"has_solidity_code"`
	HasDependencyManifest bool                 `json:"has_dependency_manifest"`
	DependencyManifests   []string             `json:"dependency_manifests,omitempty"`
	License               string               `json:"license,omitempty"`
	Releases              ReleaseSummary       `json:"releases"`
	Tracker               *TrackerStats        `json:"tracker,omitempty"`
	SecurityScore         int                  `json:"security_score"`
	Flags                 []string             `json:"flags"`
	Recommendations       []string             `json:"recommendations"`
}

// AlgorithmMatch is a proof-of-work algorithm detected in sampled code
type AlgorithmMatch struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Score         int      `json:"score"`
	KnownProjects []string `json:"known_projects,omitempty"`
}

// AIMLScan reports machine-learning library signatures found in the sampled files
type AIMLScan struct {
	FilesScanned     int      `json:"files_scanned"`
	FilesWithSignals int      `json:"files_with_ai_ml"`
	Signatures       []string `json:"signatures_found"`
	Ratio            float64  `json:"ai_ml_ratio"`
}

// PowResult holds proof-of-work detection and template similarity
type PowResult struct {
	Algorithms             []AlgorithmMatch `json:"algorithms"`
	FilesScanned           int              `json:"files_scanned"`
	TruncatedFiles         int              `json:"truncated_files"`
	SampledPaths           []string         `json:"sampled_paths"`
	TemplateMarkers        []string         `json:"template_markers"`
	TemplateSimilarity     float64          `json:"template_similarity"`
	HighTemplateSimilarity bool             `json:"high_template_similarity"`
	CorpusDigest           string           `json:"corpus_digest"`
	AIML                   AIMLScan         `json:"ai_ml"`
	Flags                  []string         `json:"flags"`
	Recommendations        []string         `json:"recommendations"`
}
