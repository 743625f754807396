package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard <gameId>",
		Short: "Print the leaderboard of a game",
		Long: `Prints the remote leaderboard when the mirror is configured, and
otherwise the leaderboard folded from completed local sessions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.sessions()
			if err != nil {
				return err
			}
			board, err := sessions.GetLeaderboard(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tATTEMPTS")
			for i, e := range board {
				fmt.Fprintf(tw, "%d\t%s %s\t%.1f\t%d\n", i+1, e.Avatar, e.Name, e.Score, e.Attempts)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum entries (default 100)")
	return cmd
}
