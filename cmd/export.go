package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/season"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	exportFormat      string
	exportOut         string
	exportMinMinutes  int
	exportMinDribbles int
	exportSort        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the season table as CSV or JSON",
	Long: `Write one row per player with season totals and per-90 rates.
Per-90 fields are empty (CSV) or omitted (JSON) for players with no playing time.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&exportMinMinutes, "min-minutes", 0, "only players with at least this many minutes")
	exportCmd.Flags().IntVar(&exportMinDribbles, "min-dribbles", 0, "only players with at least this many attempted dribbles")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "sort key (default player id)")
}

// exportRow is the JSON shape of one season row.
type exportRow struct {
	PlayerID          int64              `json:"player_id"`
	Name              string             `json:"name"`
	Team              string             `json:"team"`
	Position          string             `json:"position"`
	Matches           int                `json:"matches"`
	SecondsPlayed     int                `json:"seconds_played"`
	Goals             int                `json:"goals"`
	Assists           int                `json:"assists"`
	Shots             int                `json:"shots"`
	ShotsXG           float64            `json:"shots_xg"`
	CompletedDribbles int                `json:"completed_dribbles"`
	FailedDribbles    int                `json:"failed_dribbles"`
	DangerDribbles    int                `json:"danger_dribbles"`
	DangerDribblesXG  float64            `json:"danger_dribbles_xg"`
	DribblesToGoals   int                `json:"dribbles_to_goals"`
	Per90             map[string]float64 `json:"per90,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := loadSeason(db, seasonQuery{
		minMinutes:  exportMinMinutes,
		minDribbles: exportMinDribbles,
		sortBy:      exportSort,
	})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	if exportFormat == "json" {
		err = writeSeasonJSON(w, rows)
	} else {
		err = writeSeasonCSV(w, rows)
	}
	if err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d players to %s\n", len(rows), exportOut)
	}
	return nil
}

func writeSeasonJSON(w io.Writer, rows []model.PlayerSeasonStats) error {
	out := make([]exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportRow{
			PlayerID:          r.PlayerID,
			Name:              r.Name,
			Team:              r.Team,
			Position:          r.Position,
			Matches:           r.Matches,
			SecondsPlayed:     r.PlayingTime,
			Goals:             r.Goals,
			Assists:           r.Assists,
			Shots:             r.Shots,
			ShotsXG:           r.ShotsXG,
			CompletedDribbles: r.CompletedDribbles,
			FailedDribbles:    r.FailedDribbles,
			DangerDribbles:    r.DangerDribbles,
			DangerDribblesXG:  r.DangerDribblesXG,
			DribblesToGoals:   r.DribblesToGoals,
			Per90:             r.Per90,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func writeSeasonCSV(w io.Writer, rows []model.PlayerSeasonStats) error {
	cw := csv.NewWriter(w)
	header := []string{"player_id", "name", "team", "position", "matches", "seconds_played",
		"goals", "assists", "shots", "shots_xg",
		"completed_dribbles", "failed_dribbles", "danger_dribbles", "danger_dribbles_xg", "dribbles_to_goals"}
	for _, col := range season.Per90Columns {
		header = append(header, col+"_per90")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.PlayerID, 10), r.Name, r.Team, r.Position,
			strconv.Itoa(r.Matches), strconv.Itoa(r.PlayingTime),
			strconv.Itoa(r.Goals), strconv.Itoa(r.Assists), strconv.Itoa(r.Shots), ff(r.ShotsXG),
			strconv.Itoa(r.CompletedDribbles), strconv.Itoa(r.FailedDribbles),
			strconv.Itoa(r.DangerDribbles), ff(r.DangerDribblesXG), strconv.Itoa(r.DribblesToGoals),
		}
		for _, col := range season.Per90Columns {
			v, ok := r.Per90[col]
			if !ok {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, ff(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
