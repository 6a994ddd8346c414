package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Config struct {
	Port           string
	GitHub         *GitHubConfig
	Analysis       *AnalysisConfig
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment, falling back to defaults
func Load() (*Config, error) {
	gh := DefaultGitHubConfig()
	gh.Token = getEnv("GITHUB_TOKEN", "")
	gh.APIBaseURL = strings.TrimRight(getEnv("GITHUB_API_BASE_URL", gh.APIBaseURL), "/")

	rps, err := strconv.ParseFloat(getEnv("GITHUB_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_REQUESTS_PER_SECOND: %w", err)
	}
	gh.RequestsPerSecond = rps

	analysis := DefaultAnalysisConfig()
	intVars := []struct {
		key string
		dst *int
	}{
		{"MAX_BATCH_SIZE", &analysis.MaxBatchSize},
		{"ANALYSIS_WORKERS", &analysis.Workers},
		{"COMMIT_WINDOW", &analysis.CommitWindow},
		{"COMMIT_SINCE_DAYS", &analysis.CommitSinceDays},
		{"SAMPLE_MAX_FILES", &analysis.Sampling.MaxFiles},
		{"SAMPLE_MAX_EXTRA_DIRS", &analysis.Sampling.MaxExtraDirs},
	}
	for _, v := range intVars {
		if *v.dst, err = getEnvInt(v.key, *v.dst); err != nil {
			return nil, err
		}
	}

	if raw := os.Getenv("SAMPLE_MAX_FILE_SIZE"); raw != "" {
		size, err := humanize.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SAMPLE_MAX_FILE_SIZE: %w", err)
		}
		analysis.Sampling.MaxFileSize = int(size)
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GitHub:         gh,
		Analysis:       analysis,
		RequestTimeout: timeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work with
func (c *Config) Validate() error {
	if c.GitHub.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.GitHub.RequestsPerSecond)
	}
	return c.Analysis.Validate()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
