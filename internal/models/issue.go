package models

import "time"

// IssueState is the lifecycle state of an issue
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// SecurityIssueRecord is an issue that carries a security-related label
type SecurityIssueRecord struct {
	Number int        `json:"number"`
	Title  string     `json:"title"`
	State  IssueState `json:"state"`
	Labels []string   `json:"labels"`
}

// TrackerStats counts open pull requests and bug reports on the issue tracker.
// Counts stop at the page cap of the data source.
type TrackerStats struct {
	OpenPullRequests   int `json:"open_pull_requests"`
	ClosedPullRequests int `json:"closed_pull_requests"`
	OpenBugIssues      int `json:"open_bug_issues"`
}

// ReleaseRecord is one published release, newest first
type ReleaseRecord struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	Prerelease  bool      `json:"prerelease"`
}

// ForkComparison summarizes how a fork differs from its parent
type ForkComparison struct {
	AheadBy       int `json:"ahead_by"`
	ModifiedFiles int `json:"modified_files"`
	TotalFiles    int `json:"total_files"`
}
