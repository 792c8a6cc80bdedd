package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/season"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	playersMinMinutes  int
	playersMinDribbles int
	playersSort        string
	playersLimit       int
	playersPer90       bool
)

// seasonQuery selects and orders rows of the season table.
type seasonQuery struct {
	minMinutes  int
	minDribbles int
	sortBy      string
	limit       int
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Season table of every player across stored matches",
	Long: `Fold every stored match into one row per player: playing time, goals, assists,
shots, xG, dribbles and danger dribbles, plus per-90 rates with --per90.

Sort keys: ` + strings.Join(season.SortKeys(), ", "),
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

func init() {
	playersCmd.Flags().IntVar(&playersMinMinutes, "min-minutes", 0, "only players with at least this many minutes")
	playersCmd.Flags().IntVar(&playersMinDribbles, "min-dribbles", 0, "only players with at least this many attempted dribbles")
	playersCmd.Flags().StringVar(&playersSort, "sort", "danger", "sort key (highest first)")
	playersCmd.Flags().IntVar(&playersLimit, "limit", 25, "max rows to print (0 = all)")
	playersCmd.Flags().BoolVar(&playersPer90, "per90", false, "print per-90 rates instead of totals")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := loadSeason(db, seasonQuery{
		minMinutes:  playersMinMinutes,
		minDribbles: playersMinDribbles,
		sortBy:      playersSort,
		limit:       playersLimit,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No players match. Run 'soccermetrics ingest <data-dir>' or relax the filters.")
		return nil
	}

	fmt.Fprintln(os.Stdout)
	if playersPer90 {
		report.PrintPer90Table(os.Stdout, rows)
		return nil
	}
	report.PrintSeasonTable(os.Stdout, rows)
	return nil
}

// loadSeason builds the season table from every stored match and applies q.
func loadSeason(db *storage.DB, q seasonQuery) ([]model.PlayerSeasonStats, error) {
	results, err := db.LoadMatchResults()
	if err != nil {
		return nil, fmt.Errorf("load match results: %w", err)
	}
	rows := season.Filter(season.Build(results), q.minMinutes, q.minDribbles)
	if q.sortBy != "" {
		if err := season.Sort(rows, q.sortBy); err != nil {
			return nil, err
		}
	}
	if q.limit > 0 && len(rows) > q.limit {
		rows = rows[:q.limit]
	}
	return rows, nil
}
