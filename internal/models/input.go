package models

import "time"

// AnalysisInput bundles everything the analyzers read for one repository.
// A non-nil *Err field means that input could not be fetched; only the
// analyzers that depend on it fail.
type AnalysisInput struct {
	Snapshot *RepoSnapshot
	Now      time.Time

	Commits    []CommitRecord
	CommitsErr error

	Contributors    []ContributorRecord
	ContributorsErr error

	Languages    map[string]int64
	LanguagesErr error

	SecurityIssues []SecurityIssueRecord
	IssuesErr      error

	Manifests      []string
	ChangelogFiles []string

	// Releases and tracker counts are optional: a fetch error only leaves them unreported.
	Releases    []ReleaseRecord
	ReleasesErr error
	Tracker     *TrackerStats
	TrackerErr  error

	Files      []FileSample
	FilesErr   error
	RootErr    error
	Comparison *ForkComparison
	// ComparisonErr is a degraded input, not a failure: originality falls back to a default score.
	ComparisonErr error
}
