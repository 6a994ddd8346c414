package github

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Repository is the subset of the repos endpoint the analyzers need
type Repository struct {
	Name             string      `json:"name"`
	FullName         string      `json:"full_name"`
	Owner            Account     `json:"owner"`
	Description      string      `json:"description"`
	URL              string      `json:"html_url"`
	Language         string      `json:"language"`
	Fork             bool        `json:"fork"`
	Parent           *Repository `json:"parent"`
	DefaultBranch    string      `json:"default_branch"`
	ForksCount       int         `json:"forks_count"`
	StarsCount       int         `json:"stargazers_count"`
	OpenIssuesCount  int         `json:"open_issues_count"`
	SubscribersCount int         `json:"subscribers_count"`
	WatchersCount    int         `json:"watchers_count"`
	License          *License    `json:"license"`
	CreatedAt        time.Time   `json:"created_at"`
	PushedAt         time.Time   `json:"pushed_at"`
}

type Account struct {
	Login string `json:"login"`
}

type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

type Commit struct {
	SHA    string   `json:"sha"`
	Author *Account `json:"author"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	PullRequest *struct{} `json:"pull_request"`
}

type PullRequest struct {
	Number int    `json:"number"`
	State  string `json:"state"`
}

type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

func (r *Release) Record() models.ReleaseRecord {
	return models.ReleaseRecord{
		TagName:     r.TagName,
		Name:        r.Name,
		PublishedAt: r.PublishedAt,
		Prerelease:  r.Prerelease,
	}
}

type Comparison struct {
	AheadBy  int `json:"ahead_by"`
	BehindBy int `json:"behind_by"`
	Files    []struct {
		Filename string `json:"filename"`
		Status   string `json:"status"`
	} `json:"files"`
}

type Tree struct {
	Truncated bool `json:"truncated"`
	Tree      []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
}

type ContentEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Snapshot converts the API representation into the engine's snapshot
func (r *Repository) Snapshot() *models.RepoSnapshot {
	snap := &models.RepoSnapshot{
		Ref:             models.RepoRef{Owner: r.Owner.Login, Name: r.Name},
		Description:     r.Description,
		URL:             r.URL,
		IsFork:          r.Fork,
		DefaultBranch:   r.DefaultBranch,
		StarsCount:      r.StarsCount,
		ForksCount:      r.ForksCount,
		WatchersCount:   r.SubscribersCount,
		OpenIssuesCount: r.OpenIssuesCount,
		Language:        r.Language,
		CreatedAt:       r.CreatedAt,
		PushedAt:        r.PushedAt,
	}
	if snap.WatchersCount == 0 {
		snap.WatchersCount = r.WatchersCount
	}
	if r.License != nil {
		snap.License = r.License.SPDXID
		if snap.License == "" || snap.License == "NOASSERTION" {
			snap.License = r.License.Name
		}
	}
	if r.Parent != nil && r.Parent.Owner.Login != "" && r.Parent.Name != "" {
		snap.Parent = &models.RepoRef{Owner: r.Parent.Owner.Login, Name: r.Parent.Name}
		snap.ParentBranch = r.Parent.DefaultBranch
	}
	return snap
}

func (c *Commit) Record() models.CommitRecord {
	rec := models.CommitRecord{
		SHA:        c.SHA,
		AuthorDate: c.Commit.Author.Date,
		Message:    c.Commit.Message,
	}
	if c.Author != nil {
		rec.AuthorLogin = c.Author.Login
	}
	return rec
}

func (i *Issue) Record() models.SecurityIssueRecord {
	rec := models.SecurityIssueRecord{
		Number: i.Number,
		Title:  i.Title,
		State:  models.IssueClosed,
		Labels: make([]string, 0, len(i.Labels)),
	}
	if i.State == string(models.IssueOpen) {
		rec.State = models.IssueOpen
	}
	for _, l := range i.Labels {
		rec.Labels = append(rec.Labels, l.Name)
	}
	return rec
}

func (e *ContentEntry) DirEntry() models.DirEntry {
	return models.DirEntry{Name: e.Name, Path: e.Path, Type: e.Type, Size: e.Size}
}

// Decode returns the file bytes of a contents response
func (e *ContentEntry) Decode() ([]byte, error) {
	if e.Encoding != "base64" {
		return []byte(e.Content), nil
	}
	return base64.StdEncoding.DecodeString(strings.ReplaceAll(e.Content, "\n", ""))
}
