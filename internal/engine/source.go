package engine

import (
	"context"
	"time"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// DataSource supplies repository facts to the engine. The GitHub client is the production implementation.
type DataSource interface {
	GetRepository(ctx context.Context, ref models.RepoRef) (*models.RepoSnapshot, error)
	ListCommits(ctx context.Context, ref models.RepoRef, since time.Time, limit int) ([]models.CommitRecord, error)
	ListContributors(ctx context.Context, ref models.RepoRef) ([]models.ContributorRecord, error)
	GetLanguages(ctx context.Context, ref models.RepoRef) (map[string]int64, error)
	ListSecurityIssues(ctx context.Context, ref models.RepoRef) ([]models.SecurityIssueRecord, error)
	ListReleases(ctx context.Context, ref models.RepoRef, limit int) ([]models.ReleaseRecord, error)
	GetTrackerStats(ctx context.Context, ref models.RepoRef) (*models.TrackerStats, error)
	CompareWithParent(ctx context.Context, snap *models.RepoSnapshot) (*models.ForkComparison, error)
	ListDirectory(ctx context.Context, ref models.RepoRef, dir string) ([]models.DirEntry, error)
	GetFileContent(ctx context.Context, ref models.RepoRef, filePath string) ([]byte, error)
}
