package models

import (
	"fmt"
	"time"
)

// RepoRef identifies a repository on the hosting platform
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the "owner/name" form of the reference
func (r RepoRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

func (r RepoRef) String() string {
	return r.FullName()
}

// RepoSnapshot holds the facts about one repository at fetch time.
// It is created once per analysis request and never mutated afterwards.
type RepoSnapshot struct {
	Ref             RepoRef   `json:"ref"`
	Description     string    `json:"description"`
	URL             string    `json:"html_url"`
	IsFork          bool      `json:"fork"`
	Parent          *RepoRef  `json:"parent,omitempty"`
	ParentBranch    string    `json:"parent_default_branch,omitempty"`
	DefaultBranch   string    `json:"default_branch"`
	StarsCount      int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	License         string    `json:"license,omitempty"`
	Language        string    `json:"language,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	PushedAt        time.Time `json:"pushed_at"`
}

// HasLicense reports whether the repository declares any license
func (s *RepoSnapshot) HasLicense() bool {
	return s.License != ""
}
