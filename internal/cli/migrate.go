package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"quizdesk/internal/config"
	"quizdesk/internal/infra/sqlite"
)

// NewMigrateCmd applies the database schema migrations.
func NewMigrateCmd(configPath, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configPath, *dbPath)
		},
	}
}

func runMigrate(ctx context.Context, configPath, dbFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	path := dbFlag
	if path == "" {
		path = cfg.Database.Path
	}
	if path == "" {
		path = "quizdesk.db"
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.RunMigrations(ctx, db); err != nil {
		return err
	}
	log.Printf("migrations applied to %s", path)
	return nil
}
