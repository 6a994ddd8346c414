package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100

	maxContributorPages = 3
	maxIssuePages       = 3
	maxTrackerPages     = 2
	maxReleasePages     = 1
)

// RateLimitInfo holds information about GitHub API rate limits
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
	// Set from Retry-After on secondary rate limits
	SecondaryLimitReset time.Time
}

// GitHubClient represents a client for interacting with the GitHub API
type GitHubClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
	limiter *rate.Limiter

	mu            sync.Mutex
	rateLimitInfo RateLimitInfo

	maxRetries      int
	initialBackoff  time.Duration
	maxBackoff      time.Duration
	retryMultiplier float64
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*GitHubClient)

// WithRetryConfig configures retry behavior
func WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) ClientOption {
	return func(c *GitHubClient) {
		c.maxRetries = maxRetries
		c.initialBackoff = initialBackoff
		c.maxBackoff = maxBackoff
	}
}

// WithBaseURL points the client at a different API root, e.g. GitHub Enterprise or a test server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GitHubClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRequestsPerSecond throttles outgoing requests
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(c *GitHubClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GitHubClient) {
		c.client = hc
	}
}

// NewGitHubClient creates a new GitHub client with the given token and options.
// An empty token makes unauthenticated requests.
func NewGitHubClient(token string, logger *logrus.Logger, opts ...ClientOption) *GitHubClient {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = 120 * time.Second

	client := &GitHubClient{
		client:          httpClient,
		baseURL:         defaultBaseURL,
		logger:          logger,
		limiter:         rate.NewLimiter(rate.Limit(10), 10),
		maxRetries:      3,
		initialBackoff:  time.Second,
		maxBackoff:      time.Minute,
		retryMultiplier: 2.0,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NewGitHubClientFromConfig builds a client from the GitHub section of the configuration
func NewGitHubClientFromConfig(cfg *config.GitHubConfig, logger *logrus.Logger, opts ...ClientOption) *GitHubClient {
	base := []ClientOption{
		WithBaseURL(cfg.APIBaseURL),
		WithRequestsPerSecond(cfg.RequestsPerSecond),
		WithRetryConfig(cfg.RateLimit.MaxRetries, cfg.RateLimit.InitialBackoff, cfg.RateLimit.MaxBackoff),
		func(c *GitHubClient) {
			if cfg.RateLimit.RetryMultiplier > 1 {
				c.retryMultiplier = cfg.RateLimit.RetryMultiplier
			}
		},
	}
	return NewGitHubClient(cfg.Token, logger, append(base, opts...)...)
}

// RateLimit returns the most recently observed rate limit state
func (c *GitHubClient) RateLimit() RateLimitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimitInfo
}

// updateRateLimitInfo updates the rate limit information from response headers
func (c *GitHubClient) updateRateLimitInfo(resp *http.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if retrySeconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimitInfo.SecondaryLimitReset = time.Now().Add(time.Duration(retrySeconds) * time.Second)
		}
	}
}

// rateLimitWait returns how long until the current limit resets
func (c *GitHubClient) rateLimitWait() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	reset := c.rateLimitInfo.ResetTime
	if c.rateLimitInfo.SecondaryLimitReset.After(time.Now()) {
		reset = c.rateLimitInfo.SecondaryLimitReset
	}
	if wait := time.Until(reset); wait > 0 {
		return wait
	}
	return 0
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		(resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != "")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// doRequestWithBackoff performs a GET request with throttling and exponential backoff.
// It returns the final HTTP status code alongside any error.
func (c *GitHubClient) doRequestWithBackoff(ctx context.Context, path string, query url.Values, result interface{}) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	logger := c.logger.WithField("url", endpoint)

	var lastErr error
	backoff := c.initialBackoff

	retry := func() error {
		if err := sleepContext(ctx, backoff); err != nil {
			return err
		}
		backoff = time.Duration(math.Min(float64(backoff)*c.retryMultiplier, float64(c.maxBackoff)))
		return nil
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = NewGitHubError(0, "request failed", err)
			logger.Warnf("Request attempt %d failed: %v", attempt+1, err)
			if err := retry(); err != nil {
				return 0, err
			}
			continue
		}

		c.updateRateLimitInfo(resp)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = NewGitHubError(resp.StatusCode, "failed to read response body", err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if result != nil && resp.StatusCode != http.StatusNoContent && len(body) > 0 {
				if err := json.Unmarshal(body, result); err != nil {
					return resp.StatusCode, NewGitHubError(resp.StatusCode, "failed to decode response", err)
				}
			}
			return resp.StatusCode, nil

		case resp.StatusCode == http.StatusUnauthorized:
			return resp.StatusCode, &UnauthorizedError{Message: apiMessage(body)}

		case isRateLimited(resp):
			info := c.RateLimit()
			lastErr = NewRateLimitError(info.ResetTime, info.Limit, info.Remaining)
			wait := c.rateLimitWait()
			if wait > c.maxBackoff || attempt == c.maxRetries-1 {
				return resp.StatusCode, lastErr
			}
			logger.Warnf("Rate limit exceeded. Waiting %v before retry", wait)
			if err := sleepContext(ctx, wait); err != nil {
				return 0, err
			}
			continue

		case resp.StatusCode >= 500:
			lastErr = NewGitHubError(resp.StatusCode, apiMessage(body), nil)
			if err := retry(); err != nil {
				return 0, err
			}
			continue

		default:
			return resp.StatusCode, NewGitHubError(resp.StatusCode, apiMessage(body), nil)
		}
	}

	return 0, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func repoPath(ref models.RepoRef, parts ...string) string {
	p := "/repos/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Name)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func validateRef(ref models.RepoRef) error {
	if ref.Owner == "" {
		return NewValidationError("owner", "cannot be empty")
	}
	if ref.Name == "" {
		return NewValidationError("name", "cannot be empty")
	}
	return nil
}

// listPages fetches up to maxPages pages of a list endpoint
func listPages[T any](ctx context.Context, c *GitHubClient, path string, query url.Values, maxPages int) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var items []T
		if _, err := c.doRequestWithBackoff(ctx, path, q, &items); err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < perPage {
			break
		}
	}
	return all, nil
}

// GetRepository gets repository information from GitHub
func (c *GitHubClient) GetRepository(ctx context.Context, ref models.RepoRef) (*models.RepoSnapshot, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	var repo Repository
	if _, err := c.doRequestWithBackoff(ctx, repoPath(ref), nil, &repo); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, NewRepositoryNotFoundError(ref.Owner, ref.Name)
		}
		return nil, err
	}

	snap := repo.Snapshot()
	if snap.Ref.Owner == "" || snap.Ref.Name == "" {
		snap.Ref = ref
	}
	return snap, nil
}

// ListCommits returns up to limit commits since the given time, newest first
func (c *GitHubClient) ListCommits(ctx context.Context, ref models.RepoRef, since time.Time, limit int) ([]models.CommitRecord, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, NewValidationError("limit", strconv.Itoa(limit))
	}

	logger := c.logger.WithFields(logrus.Fields{
		"owner": ref.Owner,
		"repo":  ref.Name,
		"since": since,
	})

	records := make([]models.CommitRecord, 0, limit)
	for page := 1; len(records) < limit; page++ {
		query := url.Values{}
		if !since.IsZero() {
			query.Set("since", since.UTC().Format(time.RFC3339))
		}
		query.Set("per_page", strconv.Itoa(perPage))
		query.Set("page", strconv.Itoa(page))

		var commits []Commit
		status, err := c.doRequestWithBackoff(ctx, repoPath(ref, "commits"), query, &commits)
		if err != nil {
			// 409 is returned for repositories without any commits
			if status == http.StatusConflict {
				return records, nil
			}
			return nil, err
		}

		for i := range commits {
			if len(records) == limit {
				break
			}
			records = append(records, commits[i].Record())
		}
		if len(commits) < perPage {
			break
		}
	}

	logger.WithField("commits", len(records)).Debug("Fetched commits")
	return records, nil
}

// ListContributors returns contributors sorted by contributions descending
func (c *GitHubClient) ListContributors(ctx context.Context, ref models.RepoRef) ([]models.ContributorRecord, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	contributors, err := listPages[Contributor](ctx, c, repoPath(ref, "contributors"), nil, maxContributorPages)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(contributors))
	records := make([]models.ContributorRecord, 0, len(contributors))
	for _, ct := range contributors {
		if ct.Login == "" || seen[ct.Login] {
			continue
		}
		seen[ct.Login] = true
		records = append(records, models.ContributorRecord{Login: ct.Login, Contributions: ct.Contributions})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Contributions > records[j].Contributions
	})
	return records, nil
}

// GetLanguages returns the repository's language byte counts
func (c *GitHubClient) GetLanguages(ctx context.Context, ref models.RepoRef) (map[string]int64, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	languages := make(map[string]int64)
	if _, err := c.doRequestWithBackoff(ctx, repoPath(ref, "languages"), nil, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// ListSecurityIssues returns issues labeled "security" in any state, excluding pull requests
func (c *GitHubClient) ListSecurityIssues(ctx context.Context, ref models.RepoRef) ([]models.SecurityIssueRecord, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("state", "all")
	query.Set("labels", "security")

	issues, err := listPages[Issue](ctx, c, repoPath(ref, "issues"), query, maxIssuePages)
	if err != nil {
		return nil, err
	}

	records := make([]models.SecurityIssueRecord, 0, len(issues))
	for i := range issues {
		if issues[i].PullRequest != nil {
			continue
		}
		records = append(records, issues[i].Record())
	}
	return records, nil
}

// ListReleases returns up to limit published releases, newest first. Drafts are skipped.
func (c *GitHubClient) ListReleases(ctx context.Context, ref models.RepoRef, limit int) ([]models.ReleaseRecord, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	releases, err := listPages[Release](ctx, c, repoPath(ref, "releases"), nil, maxReleasePages)
	if err != nil {
		return nil, err
	}

	records := make([]models.ReleaseRecord, 0, len(releases))
	for i := range releases {
		if releases[i].Draft {
			continue
		}
		if limit > 0 && len(records) == limit {
			break
		}
		records = append(records, releases[i].Record())
	}
	return records, nil
}

// GetTrackerStats counts open and closed pull requests and open issues labeled "bug".
// Each count stops after maxTrackerPages pages.
func (c *GitHubClient) GetTrackerStats(ctx context.Context, ref models.RepoRef) (*models.TrackerStats, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	stats := &models.TrackerStats{}
	for _, state := range []string{"open", "closed"} {
		query := url.Values{}
		query.Set("state", state)
		pulls, err := listPages[PullRequest](ctx, c, repoPath(ref, "pulls"), query, maxTrackerPages)
		if err != nil {
			return nil, err
		}
		if state == "open" {
			stats.OpenPullRequests = len(pulls)
		} else {
			stats.ClosedPullRequests = len(pulls)
		}
	}

	query := url.Values{}
	query.Set("state", "open")
	query.Set("labels", "bug")
	issues, err := listPages[Issue](ctx, c, repoPath(ref, "issues"), query, maxTrackerPages)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		if issues[i].PullRequest == nil {
			stats.OpenBugIssues++
		}
	}

	c.logger.WithFields(logrus.Fields{
		"owner":      ref.Owner,
		"repo":       ref.Name,
		"open_pulls": stats.OpenPullRequests,
		"open_bugs":  stats.OpenBugIssues,
	}).Debug("Fetched tracker stats")
	return stats, nil
}

// CompareWithParent diffs a fork's default branch against its parent's
func (c *GitHubClient) CompareWithParent(ctx context.Context, snap *models.RepoSnapshot) (*models.ForkComparison, error) {
	if snap == nil || snap.Parent == nil {
		return nil, NewValidationError("parent", "repository has no parent")
	}

	branch := snap.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	parentBranch := snap.ParentBranch
	if parentBranch == "" {
		parentBranch = branch
	}

	basehead := fmt.Sprintf("%s...%s:%s",
		url.PathEscape(parentBranch), url.PathEscape(snap.Ref.Owner), url.PathEscape(branch))

	var cmp Comparison
	if _, err := c.doRequestWithBackoff(ctx, repoPath(*snap.Parent, "compare", basehead), nil, &cmp); err != nil {
		return nil, fmt.Errorf("failed to compare with %s: %w", snap.Parent.FullName(), err)
	}

	query := url.Values{}
	query.Set("recursive", "1")
	var tree Tree
	if _, err := c.doRequestWithBackoff(ctx, repoPath(snap.Ref, "git", "trees", url.PathEscape(branch)), query, &tree); err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", snap.Ref.FullName(), err)
	}

	total := 0
	for _, entry := range tree.Tree {
		if entry.Type == "blob" {
			total++
		}
	}

	return &models.ForkComparison{
		AheadBy:       cmp.AheadBy,
		ModifiedFiles: len(cmp.Files),
		TotalFiles:    total,
	}, nil
}

// ListDirectory lists one directory of the default branch; "" is the root.
// A missing directory, or an empty repository, yields an empty listing.
func (c *GitHubClient) ListDirectory(ctx context.Context, ref models.RepoRef, dir string) ([]models.DirEntry, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	p := repoPath(ref, "contents")
	if dir = strings.Trim(dir, "/"); dir != "" {
		p += "/" + escapePath(dir)
	}

	var contents []ContentEntry
	if _, err := c.doRequestWithBackoff(ctx, p, nil, &contents); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return []models.DirEntry{}, nil
		}
		return nil, err
	}

	entries := make([]models.DirEntry, 0, len(contents))
	for i := range contents {
		entries = append(entries, contents[i].DirEntry())
	}
	return entries, nil
}

// GetFileContent returns the decoded content of one file
func (c *GitHubClient) GetFileContent(ctx context.Context, ref models.RepoRef, filePath string) ([]byte, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if strings.Trim(filePath, "/") == "" {
		return nil, NewValidationError("path", "cannot be empty")
	}

	var content ContentEntry
	if _, err := c.doRequestWithBackoff(ctx, repoPath(ref, "contents", escapePath(filePath)), nil, &content); err != nil {
		return nil, err
	}
	if content.Type != "" && content.Type != "file" {
		return nil, NewValidationError("path", filePath+" is not a file")
	}
	data, err := content.Decode()
	if err != nil {
		return nil, NewGitHubError(http.StatusOK, "failed to decode file content", err)
	}
	return data, nil
}
