package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

var testRef = models.RepoRef{Owner: "test-owner", Name: "test-repo"}

func setupTestClient(t *testing.T, handler http.HandlerFunc) *GitHubClient {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGitHubClient(
		"test-token",
		logger,
		WithBaseURL(server.URL),
		WithRequestsPerSecond(1000),
		WithRetryConfig(3, time.Millisecond*10, time.Millisecond*100),
	)
}

func TestGitHubClient_GetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("successful request", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/repos/test-owner/test-repo", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Remaining", "4999")
			w.Header().Set("X-RateLimit-Reset", "1234567890")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{
				"name": "test-repo",
				"owner": {"login": "test-owner"},
				"description": "Test repository",
				"html_url": "https://github.com/test-owner/test-repo",
				"language": "Go",
				"fork": true,
				"parent": {"name": "upstream", "owner": {"login": "origin"}, "default_branch": "master"},
				"default_branch": "main",
				"forks_count": 100,
				"stargazers_count": 200,
				"open_issues_count": 10,
				"subscribers_count": 30,
				"watchers_count": 200,
				"license": {"key": "mit", "name": "MIT License", "spdx_id": "MIT"},
				"created_at": "2020-01-01T00:00:00Z",
				"pushed_at": "2020-01-02T00:00:00Z"
			}`))
		})

		snap, err := client.GetRepository(ctx, testRef)
		require.NoError(t, err)
		assert.Equal(t, testRef, snap.Ref)
		assert.Equal(t, "Test repository", snap.Description)
		assert.Equal(t, "https://github.com/test-owner/test-repo", snap.URL)
		assert.Equal(t, "Go", snap.Language)
		assert.True(t, snap.IsFork)
		require.NotNil(t, snap.Parent)
		assert.Equal(t, "origin/upstream", snap.Parent.FullName())
		assert.Equal(t, "master", snap.ParentBranch)
		assert.Equal(t, 100, snap.ForksCount)
		assert.Equal(t, 200, snap.StarsCount)
		assert.Equal(t, 30, snap.WatchersCount)
		assert.Equal(t, 10, snap.OpenIssuesCount)
		assert.Equal(t, "MIT", snap.License)
		assert.Equal(t, 2020, snap.PushedAt.Year())

		info := client.RateLimit()
		assert.Equal(t, 5000, info.Limit)
		assert.Equal(t, 4999, info.Remaining)
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		})

		_, err := client.GetRepository(ctx, testRef)
		require.Error(t, err)
		var notFound *RepositoryNotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "Bad credentials"}`))
		})

		_, err := client.GetRepository(ctx, testRef)
		require.Error(t, err)
		assert.True(t, IsUnauthorizedError(err))
		assert.Contains(t, err.Error(), "Bad credentials")
	})

	t.Run("rate limit exhausted", func(t *testing.T) {
		var calls int32
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "API rate limit exceeded"}`))
		})

		_, err := client.GetRepository(ctx, testRef)
		require.Error(t, err)
		assert.True(t, IsRateLimitError(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "reset beyond max backoff is not waited for")
	})

	t.Run("short rate limit is retried", func(t *testing.T) {
		var calls int32
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"name": "test-repo", "owner": {"login": "test-owner"}}`))
		})

		snap, err := client.GetRepository(ctx, testRef)
		require.NoError(t, err)
		assert.Equal(t, "test-repo", snap.Ref.Name)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("server error retry", func(t *testing.T) {
		var calls int32
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"name": "test-repo", "owner": {"login": "test-owner"}}`))
		})

		_, err := client.GetRepository(ctx, testRef)
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("persistent server error", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetRepository(ctx, testRef)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries exceeded")
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	})

	t.Run("validation", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.GetRepository(ctx, models.RepoRef{Name: "repo"})
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestGitHubClient_ListCommits(t *testing.T) {
	ctx := context.Background()
	since := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("paginates up to limit", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/test-owner/test-repo/commits", r.URL.Path)
			assert.Equal(t, "2025-09-01T00:00:00Z", r.URL.Query().Get("since"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))

			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			fmt.Fprint(w, "[")
			for i := 0; i < 100; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"sha": "p%d-%d", "author": {"login": "dev"}, "commit": {"message": "m", "author": {"date": "2025-10-01T00:00:00Z"}}}`, page, i)
			}
			fmt.Fprint(w, "]")
		})

		commits, err := client.ListCommits(ctx, testRef, since, 150)
		require.NoError(t, err)
		require.Len(t, commits, 150)
		assert.Equal(t, "p1-0", commits[0].SHA)
		assert.Equal(t, "p2-49", commits[149].SHA)
		assert.Equal(t, "dev", commits[0].AuthorLogin)
	})

	t.Run("empty repository", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message": "Git Repository is empty."}`))
		})

		commits, err := client.ListCommits(ctx, testRef, since, 100)
		require.NoError(t, err)
		assert.Empty(t, commits)
	})
}

func TestGitHubClient_ListContributors(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"login": "b", "contributions": 5},
			{"login": "a", "contributions": 50},
			{"login": "", "contributions": 7},
			{"login": "a", "contributions": 50}
		]`))
	})

	contributors, err := client.ListContributors(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, []models.ContributorRecord{
		{Login: "a", Contributions: 50},
		{Login: "b", Contributions: 5},
	}, contributors)
}

func TestGitHubClient_ListSecurityIssues(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "security", r.URL.Query().Get("labels"))
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		w.Write([]byte(`[
			{"number": 1, "title": "overflow", "state": "open", "labels": [{"name": "security"}]},
			{"number": 2, "title": "fix", "state": "closed", "labels": [{"name": "security"}], "pull_request": {}},
			{"number": 3, "title": "reentrancy", "state": "closed", "labels": [{"name": "security"}, {"name": "bug"}]}
		]`))
	})

	issues, err := client.ListSecurityIssues(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, models.IssueOpen, issues[0].State)
	assert.Equal(t, models.IssueClosed, issues[1].State)
	assert.Equal(t, []string{"security", "bug"}, issues[1].Labels)
}

func TestGitHubClient_ListReleases(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/test-owner/test-repo/releases", r.URL.Path)
		w.Write([]byte(`[
			{"tag_name": "v2.0.0-rc1", "draft": true},
			{"tag_name": "v1.1.0", "name": "Bugfix", "published_at": "2026-02-01T00:00:00Z"},
			{"tag_name": "v1.0.0", "prerelease": true, "published_at": "2026-01-01T00:00:00Z"},
			{"tag_name": "v0.9.0", "published_at": "2025-12-01T00:00:00Z"}
		]`))
	})

	releases, err := client.ListReleases(context.Background(), testRef, 2)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "v1.1.0", releases[0].TagName)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), releases[0].PublishedAt)
	assert.True(t, releases[1].Prerelease)
}

func TestGitHubClient_GetTrackerStats(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/repos/test-owner/test-repo/pulls" && q.Get("state") == "open":
			w.Write([]byte(`[{"number": 1, "state": "open"}, {"number": 2, "state": "open"}]`))
		case r.URL.Path == "/repos/test-owner/test-repo/pulls" && q.Get("state") == "closed":
			w.Write([]byte(`[{"number": 3, "state": "closed"}]`))
		case r.URL.Path == "/repos/test-owner/test-repo/issues":
			assert.Equal(t, "bug", q.Get("labels"))
			assert.Equal(t, "open", q.Get("state"))
			w.Write([]byte(`[
				{"number": 4, "state": "open", "labels": [{"name": "bug"}]},
				{"number": 5, "state": "open", "labels": [{"name": "bug"}], "pull_request": {}},
				{"number": 6, "state": "open", "labels": [{"name": "bug"}]}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	stats, err := client.GetTrackerStats(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, &models.TrackerStats{OpenPullRequests: 2, ClosedPullRequests: 1, OpenBugIssues: 2}, stats)
}

func TestGitHubClient_CompareWithParent(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/origin/upstream/compare/master...test-owner:main":
			w.Write([]byte(`{"ahead_by": 4, "files": [{"filename": "a.go"}, {"filename": "b.go"}]}`))
		case "/repos/test-owner/test-repo/git/trees/main":
			assert.Equal(t, "1", r.URL.Query().Get("recursive"))
			w.Write([]byte(`{"tree": [
				{"path": "a.go", "type": "blob"},
				{"path": "b.go", "type": "blob"},
				{"path": "c.go", "type": "blob"},
				{"path": "pkg", "type": "tree"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	snap := &models.RepoSnapshot{
		Ref:           testRef,
		IsFork:        true,
		Parent:        &models.RepoRef{Owner: "origin", Name: "upstream"},
		ParentBranch:  "master",
		DefaultBranch: "main",
	}

	cmp, err := client.CompareWithParent(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, &models.ForkComparison{AheadBy: 4, ModifiedFiles: 2, TotalFiles: 3}, cmp)

	_, err = client.CompareWithParent(context.Background(), &models.RepoSnapshot{Ref: testRef})
	assert.Error(t, err)
}

func TestGitHubClient_Contents(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("pragma solidity ^0.8.0;"))
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/test-owner/test-repo/contents":
			w.Write([]byte(`[
				{"name": "contracts", "path": "contracts", "type": "dir"},
				{"name": "package.json", "path": "package.json", "type": "file", "size": 120}
			]`))
		case "/repos/test-owner/test-repo/contents/contracts/Token.sol":
			fmt.Fprintf(w, `{"name": "Token.sol", "path": "contracts/Token.sol", "type": "file", "encoding": "base64", "content": "%s\n"}`, encoded)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		}
	})
	ctx := context.Background()

	entries, err := client.ListDirectory(ctx, testRef, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "package.json", entries[1].Name)

	missing, err := client.ListDirectory(ctx, testRef, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing)

	content, err := client.GetFileContent(ctx, testRef, "contracts/Token.sol")
	require.NoError(t, err)
	assert.Equal(t, "pragma solidity ^0.8.0;", string(content))

	_, err = client.GetFileContent(ctx, testRef, "contracts/Missing.sol")
	assert.True(t, IsNotFoundError(err))
}

func TestGitHubClient_GetLanguages(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/test-owner/test-repo/languages", r.URL.Path)
		w.Write([]byte(`{"Go": 12000, "Solidity": 3000}`))
	})

	languages, err := client.GetLanguages(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Go": 12000, "Solidity": 3000}, languages)
}

func TestGitHubClient_ContextCancelled(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRepository(ctx, testRef)
	assert.ErrorIs(t, err, context.Canceled)
}
