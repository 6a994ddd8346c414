package analyzer

import (
	"fmt"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

const (
	// maxCommitPoints caps the share of the score earned by unique commits
	maxCommitPoints = 50
	// comparisonFailedScore is used when a fork cannot be diffed against its parent
	comparisonFailedScore = 10
	// unresolvedParentScore is used when a fork's parent is unknown
	unresolvedParentScore = 50

	lazyForkMessage = "Likely lazy fork with minimal changes - high scam risk"
)

// Originality estimates how much of a fork is original work
func Originality(in *models.AnalysisInput) (*models.OriginalityResult, error) {
	if in == nil || in.Snapshot == nil {
		return nil, ErrMissingInput
	}
	snap := in.Snapshot

	res := &models.OriginalityResult{
		IsFork:          snap.IsFork,
		Flags:           []string{},
		Recommendations: []string{},
	}

	switch {
	case !snap.IsFork:
		res.OriginalityScore = 100
		res.Risk = models.RiskLow
		res.Message = "Original repository, not a fork"
		return res, nil

	case snap.Parent == nil:
		res.OriginalityScore = unresolvedParentScore
		res.Risk = models.RiskMedium
		res.Message = "Fork parent could not be resolved - originality unverified"
		res.Flags = append(res.Flags, res.Message)
		return res, nil
	}

	res.Parent = snap.Parent.FullName()

	if in.ComparisonErr != nil || in.Comparison == nil {
		res.OriginalityScore = comparisonFailedScore
		res.Risk = models.RiskHigh
		res.Message = fmt.Sprintf("Could not compare fork with %s - unverified fork, high scam risk", res.Parent)
		res.Flags = append(res.Flags, res.Message)
		return res, nil
	}

	cmp := in.Comparison
	res.UniqueCommits = cmp.AheadBy
	res.TotalFiles = cmp.TotalFiles
	res.ModifiedFiles = cmp.ModifiedFiles
	res.OriginalityScore = OriginalityScore(cmp.AheadBy, cmp.ModifiedFiles, cmp.TotalFiles)
	res.Risk = riskFor(res.OriginalityScore)

	switch res.Risk {
	case models.RiskHigh:
		res.Message = lazyForkMessage
		res.Flags = append(res.Flags, lazyForkMessage)
	case models.RiskMedium:
		res.Message = fmt.Sprintf("Fork of %s with limited original changes (%d%% originality)", res.Parent, res.OriginalityScore)
		res.Flags = append(res.Flags, res.Message)
	default:
		res.Message = fmt.Sprintf("Fork of %s with substantial original changes", res.Parent)
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Fork adds %d unique commits and modifies %d of %d files", cmp.AheadBy, cmp.ModifiedFiles, cmp.TotalFiles))
	}
	return res, nil
}

// OriginalityScore combines unique commits (up to half the score) with the modified file ratio (the other half)
func OriginalityScore(uniqueCommits, modifiedFiles, totalFiles int) int {
	commitPoints := float64(uniqueCommits * 2)
	if commitPoints > maxCommitPoints {
		commitPoints = maxCommitPoints
	}
	if commitPoints < 0 {
		commitPoints = 0
	}

	filePoints := 0.0
	if totalFiles > 0 {
		filePoints = float64(modifiedFiles) / float64(totalFiles) * 50
	}
	return clamp(round(commitPoints+filePoints), 0, 100)
}

func riskFor(score int) models.Risk {
	switch {
	case score < 20:
		return models.RiskHigh
	case score < 50:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
