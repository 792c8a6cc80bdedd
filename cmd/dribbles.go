package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	dribblesDangerOnly bool
	dribblesPlayers    []int64
	dribblesMatch      int64
)

var dribblesCmd = &cobra.Command{
	Use:   "dribbles",
	Short: "List stored dribbles with their danger annotation",
	Long: `List dribble attempts across stored matches. A danger dribble is followed by a
shot from the same team within the shot window, inside the same period.`,
	Args: cobra.NoArgs,
	RunE: runDribbles,
}

func init() {
	dribblesCmd.Flags().BoolVar(&dribblesDangerOnly, "danger-only", false, "only danger dribbles")
	dribblesCmd.Flags().Int64SliceVar(&dribblesPlayers, "player", nil, "restrict to these player ids (repeatable)")
	dribblesCmd.Flags().Int64Var(&dribblesMatch, "match", 0, "restrict to one match id")
}

func runDribbles(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.Dribbles(storage.DribbleFilter{
		PlayerIDs:  dribblesPlayers,
		MatchID:    dribblesMatch,
		DangerOnly: dribblesDangerOnly,
	})
	if err != nil {
		return fmt.Errorf("query dribbles: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No dribbles match.")
		return nil
	}

	// Names come from the per-match stats of the players involved.
	ids := make(map[int64]struct{})
	for _, d := range rows {
		ids[d.PlayerID] = struct{}{}
	}
	playerIDs := make([]int64, 0, len(ids))
	for id := range ids {
		playerIDs = append(playerIDs, id)
	}
	lines, err := db.PlayerHistory(playerIDs)
	if err != nil {
		return fmt.Errorf("query player names: %w", err)
	}
	names := make(map[int64]string)
	for _, l := range lines {
		if l.Name != "" {
			names[l.PlayerID] = l.Name
		}
	}

	report.PrintDribbles(os.Stdout, rows, names)

	danger := 0
	for _, d := range rows {
		if d.IsDanger {
			danger++
		}
	}
	fmt.Fprintf(os.Stdout, "\n(%d dribbles, %d danger)\n", len(rows), danger)
	return nil
}
