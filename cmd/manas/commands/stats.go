package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command
func NewStatsCommand(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your level, wellness points and recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			store, snap, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			records, err := store.ListSessionRecords(ctx, limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			p := snap.Progression
			name := snap.UserName
			if name == "" {
				name = cfg.UserName
			}
			fmt.Fprintf(out, "%s\n", name)
			fmt.Fprintf(out, "Level:        %d\n", p.Level)
			fmt.Fprintf(out, "Points:       %d/%d WP\n", p.Points, p.PointsToLevel)
			fmt.Fprintf(out, "Glow berries: %d\n", p.GlowBerries)
			fmt.Fprintf(out, "Moods logged: %d\n", len(snap.Moods))
			if len(records) == 0 {
				fmt.Fprintln(out, "\nNo sessions yet")
				return nil
			}
			fmt.Fprintln(out, "\nRecent sessions:")
			for _, r := range records {
				fmt.Fprintf(out, "  %s  %-10s %-9s %s\n",
					r.EndedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.Outcome, formatSeconds(r.ElapsedSec))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of sessions to show")
	return cmd
}

func formatSeconds(total int) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}
