package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envDB := os.Getenv("QUIZDESK_DB")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "quizdesk",
		Short: "Category-based quiz game with a local scoreboard",
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", envDB, "path to the sqlite database file")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewPlayCmd(&configPath, &dbPath))
	cmd.AddCommand(NewMigrateCmd(&configPath, &dbPath))
	cmd.AddCommand(NewTopCmd(&configPath, &dbPath))
	return cmd
}
