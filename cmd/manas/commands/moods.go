package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMoodsCommand creates the moods command
func NewMoodsCommand(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "moods",
		Short: "List your mood history, newest first",
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

			out := cmd.OutOrStdout()
			if len(snap.Moods) == 0 {
				fmt.Fprintln(out, "No moods logged yet")
				return nil
			}
			shown := 0
			for i := len(snap.Moods) - 1; i >= 0; i-- {
				if limit > 0 && shown >= limit {
					break
				}
				e := snap.Moods[i]
				fmt.Fprintf(out, "%s  %s %s\n", e.At.Local().Format("2006-01-02 15:04"), e.Label.Emoji(), e.Label.Title())
				shown++
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show (0 for all)")
	return cmd
}
