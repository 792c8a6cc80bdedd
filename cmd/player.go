package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

// playerCmd prints the per-match history of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <player-id> [<player-id>...]",
	Short: "Per-match history for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	ids, err := parsePlayerIDs(args)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return printPlayerHistory(os.Stdout, db, ids)
}

func parsePlayerIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// printPlayerHistory prints one history table per player, followed by the
// player's season totals.
func printPlayerHistory(w io.Writer, db *storage.DB, ids []int64) error {
	lines, err := db.PlayerHistory(ids)
	if err != nil {
		return fmt.Errorf("query player history: %w", err)
	}

	byPlayer := make(map[int64][]model.PlayerMatchLine)
	for _, l := range lines {
		byPlayer[l.PlayerID] = append(byPlayer[l.PlayerID], l)
	}

	for _, id := range ids {
		hist := byPlayer[id]
		if len(hist) == 0 {
			fmt.Fprintf(os.Stderr, "No data found for player %d\n", id)
			continue
		}
		name := hist[0].Name
		if name == "" {
			name = strconv.FormatInt(id, 10)
		}

		var total model.PlayerMatchLine
		for _, l := range hist {
			total.SecondsPlayed += l.SecondsPlayed
			total.Goals += l.Goals
			total.Assists += l.Assists
			total.Dribbles += l.Dribbles
			total.Danger += l.Danger
			total.DangerXG += l.DangerXG
		}

		fmt.Fprintf(w, "\n--- %s (%d) ---\n\n", name, id)
		report.PrintPlayerHistory(w, hist)
		fmt.Fprintf(w, "\n  %d matches  |  %d min  |  %d G  %d A  |  %d dribbles, %d danger (%.2f xG)\n",
			len(hist), total.SecondsPlayed/60, total.Goals, total.Assists, total.Dribbles, total.Danger, total.DangerXG)
	}
	return nil
}
