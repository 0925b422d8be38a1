package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewTopCmd prints the leaderboard without entering the interactive loop.
func NewTopCmd(configPath, dbPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd.Context(), *configPath, *dbPath, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 uses the configured limit)")
	return cmd
}

func runTop(ctx context.Context, configPath, dbFlag string, limit int) error {
	svcs, err := buildServices(ctx, configPath, dbFlag)
	if err != nil {
		return err
	}
	defer svcs.close()

	if limit <= 0 {
		limit = svcs.limit
	}
	lb, err := svcs.scores.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tSCORE\tTOTAL\tCATEGORY\tTIME")
	for _, entry := range lb.Entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			entry.Username, entry.Score, entry.Total, entry.Category,
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
