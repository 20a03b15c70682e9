// Package cmd implements the bagbot command line: the HTTP server, a one-shot
// question client and schema migrations.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/config"
	"github.com/bagucv/bagbot-engine/pkg/logging"
)

// Version is reported by the version command and /ping.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bagbot",
	Short: "Library assistant backend",
	Long: `bagbot answers questions about the library catalog by generating SQL with a
language model, checking it, running it against PostgreSQL and phrasing the rows
as a reply.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with the given build version.
func Execute(version string) {
	Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default "+config.DefaultPath+" if present)")
}

// loadConfig loads the configuration and builds the logger it asks for.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}
