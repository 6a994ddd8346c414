package config

import "fmt"

// AnalysisConfig holds engine limits
type AnalysisConfig struct {
	MaxBatchSize    int
	Workers         int
	CommitWindow    int
	CommitSinceDays int
	Sampling        SamplingConfig
}

// SamplingConfig bounds the file sample fed to the pattern scanner
type SamplingConfig struct {
	MaxFiles     int
	MaxFileSize  int
	MaxExtraDirs int
}

// DefaultAnalysisConfig returns the default analysis configuration
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		MaxBatchSize:    10,
		Workers:         3,
		CommitWindow:    100,
		CommitSinceDays: 180,
		Sampling: SamplingConfig{
			MaxFiles:     25,
			MaxFileSize:  50 * 1024,
			MaxExtraDirs: 5,
		},
	}
}

// Validate rejects non-positive limits
func (c *AnalysisConfig) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"max batch size", c.MaxBatchSize},
		{"workers", c.Workers},
		{"commit window", c.CommitWindow},
		{"commit since days", c.CommitSinceDays},
		{"sample max files", c.Sampling.MaxFiles},
		{"sample max file size", c.Sampling.MaxFileSize},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", check.name, check.value)
		}
	}
	if c.Sampling.MaxExtraDirs < 0 {
		return fmt.Errorf("sample max extra dirs must not be negative, got %d", c.Sampling.MaxExtraDirs)
	}
	return nil
}
