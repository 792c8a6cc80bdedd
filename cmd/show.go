package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var showDangerOnly bool

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show period clocks, playing time and dribbles of a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showDangerOnly, "danger-only", false, "only list danger dribbles")
}

func runShow(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q: %w", args[0], err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := showMatch(os.Stdout, db, matchID, showDangerOnly); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No match stored with id %d\n", matchID)
			return nil
		}
		return err
	}
	return nil
}

// showMatch prints every stored output of one match.
func showMatch(w io.Writer, db *storage.DB, matchID int64, dangerOnly bool) error {
	res, err := db.LoadMatchResult(matchID)
	if err != nil {
		return fmt.Errorf("load match %d: %w", matchID, err)
	}
	names := playerNames(res)

	report.PrintMatchSummary(w, res.Summary)

	fmt.Fprintf(w, "--- Period clocks ---\n\n")
	report.PrintPeriodClocks(w, res.Clocks)

	fmt.Fprintf(w, "\n--- Playing time (full game %s) ---\n\n", report.FormatClock(res.FullGameTime()))
	report.PrintPlayingTime(w, res.PlayingTime, names)

	dribbles := res.Dribbles
	if dangerOnly {
		dribbles = nil
		for _, d := range res.Dribbles {
			if d.IsDanger {
				dribbles = append(dribbles, d)
			}
		}
	}
	fmt.Fprintf(w, "\n--- Dribbles ---\n\n")
	report.PrintDribbles(w, dribbles, names)

	report.PrintAnomalies(w, res.Anomalies, names)
	return nil
}

func playerNames(res *model.MatchResult) map[int64]string {
	names := make(map[int64]string, len(res.Stats))
	for _, s := range res.Stats {
		names[s.PlayerID] = s.Name
	}
	return names
}
