package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/logger"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, competition, season, match_date, home_team, away_team,
    home_score, away_score, event_count, run_id)
  period_clocks(match_id, period, nominal_length, measured_length, stoppage_time)
  player_match_time(match_id, player_id, seconds_played)
  dribbles(match_id, seq, event_id, period, clock_seconds, team, player_id, outcome,
    x, y, is_danger, xg_from_dribble, leads_to_goal)
  player_match_stats(match_id, player_id, name, team, goals, assists, shots, shots_xg)
  player_positions(match_id, player_id, position_id, events)
  anomalies(match_id, seq, player_id, kind, detail)
  ingest_runs(run_id, started_at, finished_at, competition_id, season_id, shot_window,
    matches, skipped)

All lengths and clocks are in seconds. Example:
  SELECT player_id, SUM(seconds_played)/60 AS minutes FROM player_match_time
  GROUP BY player_id ORDER BY minutes DESC LIMIT 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	log.Debug(cmd.Context(), "raw query", logger.String("query", query), logger.Int("rows", len(rows)))
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

