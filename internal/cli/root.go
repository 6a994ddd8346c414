// Package cli implements the repovet command line tool.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	"github.com/Kamar-Folarin/repo-vetter/internal/engine"
	"github.com/Kamar-Folarin/repo-vetter/internal/github"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SourceFactory builds the data source used by the analyze command
type SourceFactory func(cfg *config.GitHubConfig, logger *logrus.Logger) engine.DataSource

func githubSource(cfg *config.GitHubConfig, logger *logrus.Logger) engine.DataSource {
	return github.NewGitHubClientFromConfig(cfg, logger)
}

type app struct {
	v         *viper.Viper
	newSource SourceFactory
	logger    *logrus.Logger
}

// Option customizes the root command
type Option func(*app)

// WithSourceFactory replaces the GitHub client
func WithSourceFactory(f SourceFactory) Option {
	return func(a *app) {
		a.newSource = f
	}
}

// NewRootCommand builds the command tree
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		v:         viper.New(),
		newSource: githubSource,
		logger:    logrus.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "repovet",
		Short:         "Score GitHub repositories for legitimacy and innovation.",
		Long:          `repovet inspects a repository's fork lineage, activity, security posture and proof-of-work code and reports a 1-100 innovation score with red flags.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./.repovet.yaml or $HOME/.repovet.yaml)")
	flags.String("token", "", "GitHub API token")
	flags.String("api-url", config.DefaultGitHubConfig().APIBaseURL, "GitHub API base URL")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(a.analyzeCommand(), a.signaturesCommand(), versionCommand())
	return root
}

// Execute runs the CLI against os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig() error {
	if configFile := a.v.GetString("config"); configFile != "" {
		a.v.SetConfigFile(configFile)
	} else {
		a.v.SetConfigName(".repovet")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath("$HOME")
	}

	a.v.SetEnvPrefix("REPOVET")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	level, err := logrus.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.logger.SetLevel(level)
	a.logger.SetOutput(os.Stderr)
	a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// resolveConfig turns the merged flag, env and file values into a validated Config
func (a *app) resolveConfig() (*config.Config, error) {
	gh := config.DefaultGitHubConfig()
	gh.Token = a.v.GetString("token")
	if gh.Token == "" {
		gh.Token = os.Getenv("GITHUB_TOKEN")
	}
	gh.APIBaseURL = strings.TrimRight(a.v.GetString("api-url"), "/")
	if a.v.IsSet("requests-per-second") {
		gh.RequestsPerSecond = a.v.GetFloat64("requests-per-second")
	}

	analysis := config.DefaultAnalysisConfig()
	if n := a.v.GetInt("workers"); n > 0 {
		analysis.Workers = n
	}
	if n := a.v.GetInt("max-batch-size"); n > 0 {
		analysis.MaxBatchSize = n
	}
	for _, limit := range []struct {
		key    string
		target *int
	}{
		{"commit-window", &analysis.CommitWindow},
		{"commit-since-days", &analysis.CommitSinceDays},
		{"sample-max-files", &analysis.Sampling.MaxFiles},
		{"sample-max-extra-dirs", &analysis.Sampling.MaxExtraDirs},
	} {
		if a.v.IsSet(limit.key) {
			*limit.target = a.v.GetInt(limit.key)
		}
	}
	if raw := a.v.GetString("sample-max-file-size"); raw != "" {
		size, err := humanize.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid sample max file size %q: %w", raw, err)
		}
		analysis.Sampling.MaxFileSize = int(size)
	}

	cfg := &config.Config{
		GitHub:         gh,
		Analysis:       analysis,
		RequestTimeout: a.v.GetDuration("timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of repovet.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("repovet CLI\n")
			cmd.Printf("  Version: %s\n", version)
			cmd.Printf("  Commit:  %s\n", commit)
			cmd.Printf("  Built:   %s\n", date)
		},
	}
}
