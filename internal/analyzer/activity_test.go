package analyzer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

var now = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

func commitsEvery(n int, step time.Duration) []models.CommitRecord {
	commits := make([]models.CommitRecord, n)
	for i := range commits {
		commits[i] = models.CommitRecord{
			SHA:         fmt.Sprintf("%040d", i),
			AuthorLogin: fmt.Sprintf("dev%d", i%12),
			AuthorDate:  now.Add(-time.Duration(i) * step),
		}
	}
	return commits
}

func contributors(n, each int) []models.ContributorRecord {
	list := make([]models.ContributorRecord, n)
	for i := range list {
		list[i] = models.ContributorRecord{Login: fmt.Sprintf("dev%d", i), Contributions: each}
	}
	return list
}

func TestActivityHealthyRepository(t *testing.T) {
	in := &models.AnalysisInput{
		Snapshot: &models.RepoSnapshot{
			CreatedAt:     now.AddDate(0, 0, -140),
			PushedAt:      now.AddDate(0, 0, -2),
			StarsCount:    900,
			ForksCount:    150,
			WatchersCount: 80,
		},
		Now:          now,
		Commits:      commitsEvery(120, 24*time.Hour),
		Contributors: contributors(12, 10),
	}

	res, err := Activity(in)
	require.NoError(t, err)

	assert.Equal(t, 120, res.TotalCommits)
	assert.Equal(t, 120, res.LifetimeCommits, "window larger than contributor sum")
	assert.Equal(t, 2, res.DaysSinceLastCommit)
	assert.Greater(t, res.CommitsPerWeek, 5.0)
	assert.Equal(t, 12, res.ContributorCount)
	assert.Len(t, res.TopContributors, 5)
	assert.Equal(t, 100, res.HealthScore)
	require.NotNil(t, res.LastCommitDate)
	assert.Equal(t, now, *res.LastCommitDate)
	for _, f := range res.Flags {
		assert.NotContains(t, f, "inactive")
		assert.NotContains(t, f, "Single contributor")
		assert.NotContains(t, f, "dominated")
	}
	assert.Len(t, res.Recommendations, 2)
	assert.False(t, res.Popularity.BelowStarBenchmark)
}

func TestActivityMatureRepositoryNotDominated(t *testing.T) {
	// dev0 authored most of the history but only a twelfth of recent commits
	people := contributors(25, 40)
	people[0].Contributions = 900
	in := &models.AnalysisInput{
		Snapshot: &models.RepoSnapshot{
			CreatedAt: now.AddDate(-5, 0, 0),
			PushedAt:  now.AddDate(0, 0, -1),
		},
		Now:          now,
		Commits:      commitsEvery(100, 12*time.Hour),
		Contributors: people,
	}

	res, err := Activity(in)
	require.NoError(t, err)

	assert.Equal(t, 100, res.TotalCommits)
	assert.Equal(t, 900+24*40, res.LifetimeCommits)
	for _, f := range res.Flags {
		assert.NotContains(t, f, "dominated")
	}
}

func TestActivityWindowDominance(t *testing.T) {
	commits := commitsEvery(10, time.Hour)
	for i := range commits[:9] {
		commits[i].AuthorLogin = "lead"
	}
	in := &models.AnalysisInput{
		Snapshot:     &models.RepoSnapshot{CreatedAt: now.AddDate(0, -2, 0), PushedAt: now},
		Now:          now,
		Commits:      commits,
		Contributors: contributors(30, 50),
	}

	res, err := Activity(in)
	require.NoError(t, err)
	require.NotEmpty(t, res.Flags)
	assert.Equal(t, "Commits dominated by single contributor lead (90% of observed commits)", res.Flags[len(res.Flags)-1])
}

func TestDominantAuthor(t *testing.T) {
	login, share := DominantAuthor(nil)
	assert.Empty(t, login)
	assert.Zero(t, share)

	commits := []models.CommitRecord{
		{AuthorLogin: "b"}, {AuthorLogin: "a"}, {AuthorLogin: ""}, {AuthorLogin: "a"}, {AuthorLogin: "b"},
	}
	login, share = DominantAuthor(commits)
	assert.Equal(t, "a", login, "ties resolve to the smaller login")
	assert.InDelta(t, 0.4, share, 1e-9)
}

func TestPopularityBenchmarks(t *testing.T) {
	p := Popularity(&models.RepoSnapshot{StarsCount: 499, ForksCount: 100, WatchersCount: 49})
	assert.True(t, p.BelowStarBenchmark)
	assert.False(t, p.BelowForkBenchmark)
	assert.True(t, p.BelowWatcherBenchmark)
	assert.Equal(t, "Limited community adoption (499 stars, 49 watchers); verify claims independently", popularityAdvice(p))

	fork := Popularity(&models.RepoSnapshot{IsFork: true, StarsCount: 500, ForksCount: 0, WatchersCount: 50})
	assert.False(t, fork.BelowForkBenchmark, "fork benchmark skipped for forks")
	assert.Empty(t, popularityAdvice(fork))
}

func TestActivityInactiveSingleContributor(t *testing.T) {
	in := &models.AnalysisInput{
		Snapshot: &models.RepoSnapshot{
			CreatedAt: now.AddDate(-3, 0, 0),
			PushedAt:  now.AddDate(0, 0, -400),
		},
		Now:          now,
		Commits:      []models.CommitRecord{{SHA: "a", AuthorLogin: "solo", AuthorDate: now.AddDate(0, 0, -400)}},
		Contributors: []models.ContributorRecord{{Login: "solo", Contributions: 40}},
	}

	res, err := Activity(in)
	require.NoError(t, err)

	assert.Equal(t, 400, res.DaysSinceLastCommit)
	// 50 - 20 (recency) - 15 (velocity) - 20 (breadth)
	assert.Equal(t, 0, res.HealthScore)
	require.Len(t, res.Flags, 4)
	assert.Contains(t, res.Flags[0], "inactive")
	assert.Equal(t, "Single contributor project - centralization risk", res.Flags[1])
	assert.Contains(t, res.Flags[2], "Low commit cadence")
	assert.Contains(t, res.Flags[3], "dominated by single contributor solo")
}

func TestActivityFallbacks(t *testing.T) {
	in := &models.AnalysisInput{
		Snapshot: &models.RepoSnapshot{CreatedAt: now.AddDate(0, 0, -50)},
		Now:      now,
		Commits:  []models.CommitRecord{{SHA: "a", AuthorDate: now.AddDate(0, 0, -10)}},
	}
	res, err := Activity(in)
	require.NoError(t, err)
	assert.Equal(t, 10, res.DaysSinceLastCommit)

	in.Commits = nil
	res, err = Activity(in)
	require.NoError(t, err)
	assert.Equal(t, 50, res.DaysSinceLastCommit)
	assert.Nil(t, res.LastCommitDate)
	assert.Empty(t, res.CommitHistory)
}

func TestActivityInputErrors(t *testing.T) {
	snap := &models.RepoSnapshot{}

	_, err := Activity(&models.AnalysisInput{Snapshot: snap, CommitsErr: errors.New("boom")})
	assert.Error(t, err)

	_, err = Activity(&models.AnalysisInput{Snapshot: snap, ContributorsErr: errors.New("boom")})
	assert.Error(t, err)
}

func TestCommitsPerWeek(t *testing.T) {
	assert.InDelta(t, 10.0, CommitsPerWeek(10, now.Add(-time.Hour), now), 1e-9, "denominator floored at one week")
	assert.InDelta(t, 5.0, CommitsPerWeek(130, now.AddDate(-2, 0, 0), now), 1e-9, "denominator capped at 26 weeks")
	assert.InDelta(t, 4.0, CommitsPerWeek(40, now.AddDate(0, 0, -70), now), 1e-9)
}

func TestHealthScoreBounds(t *testing.T) {
	for _, days := range []int{0, 6, 7, 29, 30, 180, 181, 10000} {
		for _, rate := range []float64{0, 0.49, 0.5, 2, 2.01, 5, 5.01, 1000} {
			for _, people := range []int{0, 1, 2, 5, 6, 10, 11, 1000} {
				score := HealthScore(days, rate, people)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestWeeklyBuckets(t *testing.T) {
	// 2026-03-18 is a Wednesday; its week starts Sunday 2026-03-15
	commits := []models.CommitRecord{
		{SHA: "a", AuthorDate: time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)},
		{SHA: "b", AuthorDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{SHA: "c", AuthorDate: time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)},
		{SHA: "d", AuthorDate: time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("UTC+10", 10*3600))},
	}

	buckets := WeeklyBuckets(commits)
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC), buckets[0].Week)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), buckets[1].Week)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), buckets[2].Week)
	assert.Equal(t, 2, buckets[2].Count)
}
