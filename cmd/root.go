package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/pkg/config"
	"github.com/killallgit/fraza-api/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fraza-api",
	Short: "Fraza language-learning API server",
	Long: `Fraza API - backend for a language-learning application

Learners submit a script in the language they are learning. The API refines
it with a language model, splits it into bilingual phrase pairs, synthesizes
audio for both sides and stores everything for later playback.

Features:
  • Script refinement and bilingual chunking via Azure OpenAI
  • Per-phrase speech synthesis via Azure Speech
  • Audio hosting on Azure Blob Storage with long-lived read links
  • Studio script generation for conversation, solo and broadcast formats
  • Firebase-authenticated chat and user profiles`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig initializes configuration and the logger for commands that need them.
// Logging flags override the configured values only when given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	if err := config.Init(); err != nil {
		return nil, nil, fmt.Errorf("error initializing config: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("json-logs") {
		if jsonLogs, _ := flags.GetBool("json-logs"); jsonLogs {
			cfg.Logging.Format = "json"
		} else {
			cfg.Logging.Format = "console"
		}
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating logger: %w", err)
	}

	return cfg, logger.With(zap.String("environment", cfg.Environment)), nil
}
