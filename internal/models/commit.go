package models

import "time"

// CommitRecord is a single commit as returned by the data source, newest first.
type CommitRecord struct {
	SHA         string    `json:"sha"`
	AuthorLogin string    `json:"author_login,omitempty"`
	AuthorDate  time.Time `json:"author_date"`
	Message     string    `json:"message"`
}

// ContributorRecord is one contributor and their contribution count.
// Lists of contributors are unique by login and sorted by Contributions descending.
type ContributorRecord struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// WeeklyCommits is the number of commits that fall in the week starting at Week
type WeeklyCommits struct {
	Week  time.Time `json:"week"`
	Count int       `json:"count"`
}
