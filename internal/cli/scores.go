package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/barista/internal/game"
	"github.com/roach88/barista/internal/leaderboard"
)

// ScoresOptions holds flags for the scores command.
type ScoresOptions struct {
	*RootOptions
	Database string
}

// NewScoresCommand creates the scores command.
func NewScoresCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoresOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the leaderboard",
		Long: `Print the top scores from a leaderboard database.

Example:
  barista scores --db barista.db
  barista scores --db barista.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScores(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite leaderboard (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runScores(opts *ScoresOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	board, err := leaderboard.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening leaderboard", err)
	}
	defer board.Close()

	entries, err := board.TopScores(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "reading leaderboard", err)
	}

	return formatter.Success(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No scores yet.")
			return
		}
		printLeaderboard(w, entries)
	})
}

func printLeaderboard(w io.Writer, entries []game.ScoreEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tSLO\tDATE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			i+1, e.PlayerName, e.Score, e.SLOName, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
