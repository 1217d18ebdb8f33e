package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"quisqueya-quiz/internal/config"
	"quisqueya-quiz/internal/infra/sqlite"
)

// NewMigrateCmd applies the SQLite score database migrations.
func NewMigrateCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the SQLite score database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), s.cfg)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config) error {
	db, err := sqlite.OpenDB(cfg.Scores.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return err
	}
	slog.Info("migrations applied", "path", cfg.Scores.SQLitePath)
	return nil
}
