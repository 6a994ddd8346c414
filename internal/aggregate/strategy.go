package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Strategy computes the innovation score of an assembled report
type Strategy interface {
	Name() string
	Score(report *models.Report) int
}

const (
	StrategyWeighted = "weighted"
	StrategyPowScan  = "pow-scan"

	// DefaultStrategy is used when the caller does not name one
	DefaultStrategy = StrategyWeighted
)

var strategies = map[string]Strategy{
	StrategyWeighted: WeightedStrategy{},
	StrategyPowScan:  PowScanStrategy{},
}

// Lookup returns the named strategy; an empty name selects DefaultStrategy
func Lookup(name string) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown scoring strategy %q", name)
	}
	return s, nil
}

// StrategyNames lists the registered strategies in name order
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeightedStrategy blends originality, health and security into one score
type WeightedStrategy struct{}

func (WeightedStrategy) Name() string { return StrategyWeighted }

func (WeightedStrategy) Score(report *models.Report) int {
	score := 50.0

	if report.Repository.IsFork {
		if report.Originality.OK() {
			score = math.Round(float64(report.Originality.Result.OriginalityScore)*0.6 + score*0.4)
		}
	} else {
		score += 20
	}
	if report.Activity.OK() {
		score = math.Round(score + float64(report.Activity.Result.HealthScore)*0.3)
	}
	if report.Security.OK() {
		score = math.Round(score + float64(report.Security.Result.SecurityScore)*0.2)
	}
	return clampScore(int(score))
}

// PowScanStrategy penalizes forks and boilerplate and rewards commit volume and contributor breadth
type PowScanStrategy struct{}

func (PowScanStrategy) Name() string { return StrategyPowScan }

func (PowScanStrategy) Score(report *models.Report) int {
	score := 50

	if report.Repository.IsFork {
		score -= 22
	}

	if report.ProofOfWork.OK() {
		pow := report.ProofOfWork.Result
		if pow.HighTemplateSimilarity {
			score -= 25
		} else {
			score -= int(math.Round(15 * pow.TemplateSimilarity))
		}
	}

	if report.Activity.OK() {
		act := report.Activity.Result
		// the commit window is capped, so volume tiers read the lifetime estimate
		switch {
		case act.LifetimeCommits > 500:
			score += 15
		case act.LifetimeCommits > 100:
			score += 10
		case act.LifetimeCommits > 20:
			score += 5
		}
		switch {
		case act.ContributorCount > 20:
			score += 15
		case act.ContributorCount > 5:
			score += 8
		case act.ContributorCount > 1:
			score += 3
		}
	}

	for _, flag := range report.RedFlags {
		switch flag.Severity {
		case models.SeverityHigh:
			score -= 6
		case models.SeverityMedium:
			score -= 2
		}
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return score
}
