package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

const (
	maxRateWeeks       = 26
	inactiveDays       = 180
	lowCadencePerWeek  = 0.5
	dominanceThreshold = 0.8
	topContributorsMax = 5

	starsBenchmark    = 500
	forksBenchmark    = 100
	watchersBenchmark = 50
)

// Activity measures commit cadence, recency and contributor breadth
func Activity(in *models.AnalysisInput) (*models.ActivityResult, error) {
	if in == nil || in.Snapshot == nil {
		return nil, ErrMissingInput
	}
	if in.CommitsErr != nil {
		return nil, inputError("commits", in.CommitsErr)
	}
	if in.ContributorsErr != nil {
		return nil, inputError("contributors", in.ContributorsErr)
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	snap := in.Snapshot

	res := &models.ActivityResult{
		TotalCommits:     len(in.Commits),
		LifetimeCommits:  LifetimeCommits(in.Commits, in.Contributors),
		ContributorCount: len(in.Contributors),
		CommitHistory:    WeeklyBuckets(in.Commits),
		Flags:            []string{},
		Recommendations:  []string{},
	}

	last := latestCommit(in.Commits)
	if !last.IsZero() {
		res.LastCommitDate = &last
	}

	reference := snap.PushedAt
	if reference.IsZero() {
		reference = last
	}
	if reference.IsZero() {
		reference = snap.CreatedAt
	}
	res.DaysSinceLastCommit = wholeDays(now.Sub(reference))

	res.CommitsPerWeek = CommitsPerWeek(res.TotalCommits, snap.CreatedAt, now)

	top := in.Contributors
	if len(top) > topContributorsMax {
		top = top[:topContributorsMax]
	}
	res.TopContributors = append([]models.ContributorRecord{}, top...)

	res.HealthScore = HealthScore(res.DaysSinceLastCommit, res.CommitsPerWeek, res.ContributorCount)

	if res.DaysSinceLastCommit > inactiveDays {
		res.Flags = append(res.Flags,
			fmt.Sprintf("Repository appears inactive: no push in %d days", res.DaysSinceLastCommit))
	}
	if res.ContributorCount == 1 {
		res.Flags = append(res.Flags, "Single contributor project - centralization risk")
	}
	if res.CommitsPerWeek < lowCadencePerWeek {
		res.Flags = append(res.Flags,
			fmt.Sprintf("Low commit cadence: %.2f commits per week", res.CommitsPerWeek))
	}
	if lead, share := DominantAuthor(in.Commits); share > dominanceThreshold {
		res.Flags = append(res.Flags,
			fmt.Sprintf("Commits dominated by single contributor %s (%.0f%% of observed commits)", lead, share*100))
	}

	if res.DaysSinceLastCommit < 30 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Actively maintained: last push %d days ago", res.DaysSinceLastCommit))
	}
	if res.ContributorCount > 5 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Broad contributor base with %d contributors", res.ContributorCount))
	}

	res.Popularity = Popularity(snap)
	if rec := popularityAdvice(res.Popularity); rec != "" {
		res.Recommendations = append(res.Recommendations, rec)
	}
	return res, nil
}

// DominantAuthor returns the login with the most commits in the window and its
// share of all window commits. Commits without a login count toward the total only.
func DominantAuthor(commits []models.CommitRecord) (string, float64) {
	if len(commits) == 0 {
		return "", 0
	}
	counts := make(map[string]int)
	lead, best := "", 0
	for _, c := range commits {
		if c.AuthorLogin == "" {
			continue
		}
		counts[c.AuthorLogin]++
		n := counts[c.AuthorLogin]
		if n > best || (n == best && c.AuthorLogin < lead) {
			lead, best = c.AuthorLogin, n
		}
	}
	return lead, float64(best) / float64(len(commits))
}

// LifetimeCommits estimates all-time commit volume as the sum of contributor
// contributions, never less than the commits observed in the window.
func LifetimeCommits(commits []models.CommitRecord, contributors []models.ContributorRecord) int {
	total := 0
	for _, c := range contributors {
		total += c.Contributions
	}
	if total < len(commits) {
		return len(commits)
	}
	return total
}

// Popularity compares stars, forks and watchers with fixed benchmarks.
// The fork benchmark does not apply to forks.
func Popularity(snap *models.RepoSnapshot) models.PopularityResult {
	return models.PopularityResult{
		Stars:                 snap.StarsCount,
		Forks:                 snap.ForksCount,
		Watchers:              snap.WatchersCount,
		BelowStarBenchmark:    snap.StarsCount < starsBenchmark,
		BelowForkBenchmark:    !snap.IsFork && snap.ForksCount < forksBenchmark,
		BelowWatcherBenchmark: snap.WatchersCount < watchersBenchmark,
	}
}

func popularityAdvice(p models.PopularityResult) string {
	var below []string
	if p.BelowStarBenchmark {
		below = append(below, fmt.Sprintf("%d stars", p.Stars))
	}
	if p.BelowForkBenchmark {
		below = append(below, fmt.Sprintf("%d forks", p.Forks))
	}
	if p.BelowWatcherBenchmark {
		below = append(below, fmt.Sprintf("%d watchers", p.Watchers))
	}
	if len(below) == 0 {
		return ""
	}
	return "Limited community adoption (" + strings.Join(below, ", ") + "); verify claims independently"
}

// CommitsPerWeek divides window commits by the repository age in weeks, capped at 26 and floored at 1
func CommitsPerWeek(commits int, createdAt, now time.Time) float64 {
	weeks := maxRateWeeks * 1.0
	if !createdAt.IsZero() {
		weeks = now.Sub(createdAt).Hours() / (24 * 7)
	}
	if weeks > maxRateWeeks {
		weeks = maxRateWeeks
	}
	if weeks < 1 {
		weeks = 1
	}
	return float64(commits) / weeks
}

// HealthScore combines recency, velocity and breadth into a 0-100 score
func HealthScore(daysSinceLastCommit int, commitsPerWeek float64, contributors int) int {
	score := 50

	switch {
	case daysSinceLastCommit < 7:
		score += 20
	case daysSinceLastCommit < 30:
		score += 10
	case daysSinceLastCommit > inactiveDays:
		score -= 20
	}

	switch {
	case commitsPerWeek > 5:
		score += 15
	case commitsPerWeek > 2:
		score += 10
	case commitsPerWeek < lowCadencePerWeek:
		score -= 15
	}

	switch {
	case contributors > 10:
		score += 15
	case contributors > 5:
		score += 10
	case contributors == 1:
		score -= 20
	}

	return clamp(score, 0, 100)
}

// WeekStart floors t to the start of its week (Sunday 00:00 UTC)
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeeklyBuckets counts commits per week, oldest week first
func WeeklyBuckets(commits []models.CommitRecord) []models.WeeklyCommits {
	counts := make(map[time.Time]int)
	for _, c := range commits {
		if c.AuthorDate.IsZero() {
			continue
		}
		counts[WeekStart(c.AuthorDate)]++
	}

	buckets := make([]models.WeeklyCommits, 0, len(counts))
	for week, n := range counts {
		buckets = append(buckets, models.WeeklyCommits{Week: week, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Week.Before(buckets[j].Week)
	})
	return buckets
}

func latestCommit(commits []models.CommitRecord) time.Time {
	var latest time.Time
	for _, c := range commits {
		if c.AuthorDate.After(latest) {
			latest = c.AuthorDate
		}
	}
	return latest
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
