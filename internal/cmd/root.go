package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ghbrowse/pkg/config"
	"ghbrowse/pkg/github"
	"ghbrowse/pkg/logger"
)

var (
	configPath string
	logLevel   string

	// appConfig is loaded before any subcommand runs
	appConfig *config.Config
)

// errReported marks failures that were already shown to the user
var errReported = errors.New("request failed")

var rootCmd = &cobra.Command{
	Use:   "ghbrowse",
	Short: "Browse GitHub users and their repositories from the terminal",
	Long: `ghbrowse lists GitHub users, searches them by name and browses the
public repositories of any user, one page at a time.

Run without a token for anonymous access, or configure one with
GITHUB_TOKEN or ~/.ghbrowse/config.yaml for a higher rate limit.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadAppConfig,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ghbrowse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(initCmd)
}

func loadAppConfig(cmd *cobra.Command, _ []string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"base_url": cfg.GitHub.BaseURL,
		"timeout":  cfg.GitHub.Timeout,
	}).Debug("Configuration loaded")

	appConfig = cfg
	input = bufio.NewReader(cmd.InOrStdin())
	return nil
}

// newClient builds a GitHub client from the loaded configuration
func newClient(cfg *config.Config) (*github.Client, error) {
	retry := github.DefaultRetryConfig()
	retry.MaxRetries = cfg.GitHub.MaxRetries

	client, err := github.NewClient(github.ClientConfig{
		Token:   github.ResolveToken(cfg),
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: cfg.GitHub.Timeout,
		Retry:   retry,
		Logger:  logrus.NewEntry(logger.GetLogger()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return client, nil
}
