package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  `Create or upgrade the job_profiles schema in the configured PostgreSQL database.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}

	log, err := logger.NewWithOutput(cfg.Log.JSON, cfg.Log.Debug, "stderr")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := commandContext(cmd)
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := runMigrations(ctx, database, log); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
	return nil
}

func runMigrations(ctx context.Context, database *db.DB, log *zap.Logger) error {
	applied, err := database.Migrate(ctx)
	if err != nil {
		return err
	}
	for _, m := range applied {
		log.Info("migration applied", zap.Int64("version", m.Version), zap.String("source", m.Source))
	}
	if len(applied) == 0 {
		log.Debug("no pending migrations")
	}
	return nil
}
