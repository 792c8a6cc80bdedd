package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all matches stored in the database:
match count, date range, dribble totals, per-team dribbles and recent ingest runs.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'soccermetrics ingest <data-dir>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored  : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Date range      : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Competitions    : %d\n", ov.Competitions)
	fmt.Fprintf(os.Stdout, "  Players seen    : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Dribbles        : %d (%d danger, %d leading to a goal)\n",
		ov.TotalDribbles, ov.DangerDribbles, ov.GoalDribbles)
	fmt.Fprintf(os.Stdout, "  Anomalies       : %d\n", ov.Anomalies)

	teams, err := db.TeamDribbles()
	if err != nil {
		return fmt.Errorf("get team dribbles: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TEAM", "MATCHES", "DRIBBLES", "SUCC%", "DANGER", "DANGER/M", "D_XG")
	for _, t := range teams {
		succ := "—"
		if t.Dribbles > 0 {
			succ = fmt.Sprintf("%.0f%%", 100*float64(t.Completed)/float64(t.Dribbles))
		}
		perMatch := 0.0
		if t.Matches > 0 {
			perMatch = float64(t.Danger) / float64(t.Matches)
		}
		tt.Append(
			t.Team,
			fmt.Sprintf("%d", t.Matches),
			fmt.Sprintf("%d", t.Dribbles),
			succ,
			fmt.Sprintf("%d", t.Danger),
			fmt.Sprintf("%.2f", perMatch),
			fmt.Sprintf("%.2f", t.DangerXG),
		)
	}
	tt.Render()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) > 5 {
		runs = runs[:5]
	}
	if len(runs) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Recent ingest runs ---\n\n")
		report.PrintRuns(os.Stdout, runs)
	}
	return nil
}
