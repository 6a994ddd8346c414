// Package analyzer contains the four independent repository analyzers.
// Each is a pure function of an AnalysisInput and never reads another's result.
package analyzer

import (
	"errors"
	"fmt"
	"math"
)

// ErrMissingInput is returned when an analyzer is called without a repository snapshot
var ErrMissingInput = errors.New("analysis input has no repository snapshot")

func inputError(what string, err error) error {
	return fmt.Errorf("%s unavailable: %w", what, err)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
