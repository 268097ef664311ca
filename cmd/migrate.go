package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/database"
	"github.com/killallgit/fraza-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the Fraza API.

The schema is derived from the application models. Tables and indexes
are created when missing and columns are added when new fields appear.
Nothing is ever dropped.

Available subcommands:
  up      - Create or update all tables
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update all tables",
	Long: `Bring the database schema up to date with the application models.

Running it repeatedly is safe.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows table status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the database schema.

Each application table is listed with whether it exists.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return migrateUp(cmd.OutOrStdout(), cfg.Database, logger, dryRun)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return migrateStatus(cmd.OutOrStdout(), cfg.Database)
}

func migrateUp(out io.Writer, cfg config.DatabaseConfig, logger *zap.Logger, dryRun bool) error {
	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		return printStatus(out, db)
	}

	if err := db.Migrate(logger); err != nil {
		return err
	}
	fmt.Fprintln(out, "Database schema is up to date")
	return nil
}

func migrateStatus(out io.Writer, cfg config.DatabaseConfig) error {
	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return printStatus(out, db)
}

func printStatus(out io.Writer, db *database.DB) error {
	status, err := db.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Database Migration Status (%s)\n", db.Dialect())
	fmt.Fprintln(out, strings.Repeat("=", 50))

	pending := 0
	for _, s := range status {
		state := "present"
		if !s.Exists {
			state = "missing"
			pending++
		}
		fmt.Fprintf(out, "  %-20s %s\n", s.Table, state)
	}

	if pending > 0 {
		fmt.Fprintf(out, "\n%d table(s) missing, run \"migrate up\"\n", pending)
	}
	return nil
}
