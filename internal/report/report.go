package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/season"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// FormatClock renders seconds as MM:SS (minutes may exceed 59).
func FormatClock(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/60, seconds%60)
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\nMatch %d  |  %s %s  |  Date: %s  |  %s %d – %d %s  |  Events: %d\n\n",
		s.MatchID, s.Competition, s.Season, s.MatchDate,
		s.HomeTeam, s.HomeScore, s.AwayScore, s.AwayTeam, s.EventCount)
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "COMPETITION", "HOME", "SCORE", "AWAY", "EVENTS")
	for _, m := range matches {
		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			m.MatchDate,
			m.Competition+" "+m.Season,
			m.HomeTeam,
			fmt.Sprintf("%d–%d", m.HomeScore, m.AwayScore),
			m.AwayTeam,
			strconv.Itoa(m.EventCount),
		)
	}
	table.Render()
}

// PrintPeriodClocks prints the measured length and stoppage of each period.
func PrintPeriodClocks(w io.Writer, clocks []model.PeriodClock) {
	table := newTable(w)
	table.Header("PERIOD", "NOMINAL", "MEASURED", "STOPPAGE")
	total := 0
	for _, c := range clocks {
		total += c.MeasuredLength
		table.Append(
			strconv.Itoa(c.Period),
			FormatClock(c.NominalLength),
			FormatClock(c.MeasuredLength),
			FormatClock(c.StoppageTime),
		)
	}
	table.Footer("TOTAL", "", FormatClock(total), "")
	table.Render()
}

// PrintPlayingTime prints seconds played per player. names maps player ids to
// display names; ids without a name print as the id.
func PrintPlayingTime(w io.Writer, rows []model.PlayerMatchTime, names map[int64]string) {
	table := newTable(w)
	table.Header("PLAYER_ID", "NAME", "PLAYED", "MINUTES")
	for _, r := range rows {
		table.Append(
			strconv.FormatInt(r.PlayerID, 10),
			nameOrDash(names, r.PlayerID),
			FormatClock(r.SecondsPlayed),
			strconv.Itoa(r.SecondsPlayed/60),
		)
	}
	table.Render()
}

// PrintDribbles prints dribble rows with their danger annotation.
func PrintDribbles(w io.Writer, rows []model.DribbleRecord, names map[int64]string) {
	table := newTable(w)
	table.Header("MATCH", "P", "CLOCK", "TEAM", "PLAYER", "OUTCOME", "X", "Y", "DANGER", "XG", "GOAL")
	for _, d := range rows {
		danger, xg, goal := "", "—", ""
		if d.IsDanger {
			danger = "✓"
			xg = fmt.Sprintf("%.3f", d.XGFromDribble)
		}
		if d.LeadsToGoal {
			goal = "✓"
		}
		table.Append(
			strconv.FormatInt(d.MatchID, 10),
			strconv.Itoa(d.Period),
			FormatClock(d.ClockSeconds),
			d.Team,
			nameOrDash(names, d.PlayerID),
			d.Outcome,
			fmt.Sprintf("%.1f", d.X),
			fmt.Sprintf("%.1f", d.Y),
			danger, xg, goal,
		)
	}
	table.Render()
}

// PrintAnomalies prints playing time data-integrity warnings.
func PrintAnomalies(w io.Writer, anomalies []model.Anomaly, names map[int64]string) {
	if len(anomalies) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Anomalies ---\n\n")
	table := newTable(w)
	table.Header("MATCH", "PLAYER", "KIND", "DETAIL")
	for _, a := range anomalies {
		table.Append(strconv.FormatInt(a.MatchID, 10), nameOrDash(names, a.PlayerID), string(a.Kind), a.Detail)
	}
	table.Render()
}

// PrintSeasonTable prints the per-player season totals.
func PrintSeasonTable(w io.Writer, rows []model.PlayerSeasonStats) {
	table := newTable(w)
	table.Header("ID", "NAME", "TEAM", "POS", "M", "MIN", "G", "A", "SH", "XG",
		"DRIB", "SUCC%", "DANGER", "D_XG", "XG/D", "D→G")
	for _, r := range rows {
		succ, xgPer := "—", "—"
		if r.AttemptedDribbles() > 0 {
			succ = fmt.Sprintf("%.0f%%", r.DribbleSuccessRate()*100)
		}
		if r.DangerDribbles > 0 {
			xgPer = fmt.Sprintf("%.3f", r.XGPerDangerDribble())
		}
		table.Append(
			strconv.FormatInt(r.PlayerID, 10),
			r.Name,
			r.Team,
			r.Position,
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Minutes()),
			strconv.Itoa(r.Goals),
			strconv.Itoa(r.Assists),
			strconv.Itoa(r.Shots),
			fmt.Sprintf("%.2f", r.ShotsXG),
			strconv.Itoa(r.AttemptedDribbles()),
			succ,
			strconv.Itoa(r.DangerDribbles),
			fmt.Sprintf("%.2f", r.DangerDribblesXG),
			xgPer,
			strconv.Itoa(r.DribblesToGoals),
		)
	}
	table.Render()
}

// PrintPer90Table prints the per-90 rates of the season table. Players without
// playing time show "—".
func PrintPer90Table(w io.Writer, rows []model.PlayerSeasonStats) {
	table := newTable(w)
	header := []any{"NAME", "MIN"}
	for _, col := range season.Per90Columns {
		header = append(header, col)
	}
	table.Header(header...)
	for _, r := range rows {
		cells := []any{r.Name, strconv.Itoa(r.Minutes())}
		for _, col := range season.Per90Columns {
			v, ok := r.Per90[col]
			if !ok {
				cells = append(cells, "—")
				continue
			}
			cells = append(cells, fmt.Sprintf("%.2f", v))
		}
		table.Append(cells...)
	}
	table.Render()
}

// PrintPlayerHistory prints one row per stored match of a player.
func PrintPlayerHistory(w io.Writer, lines []model.PlayerMatchLine) {
	table := newTable(w)
	table.Header("DATE", "MATCH", "FIXTURE", "TEAM", "MIN", "G", "A", "SH", "XG", "DRIB", "COMP", "DANGER", "D_XG")
	for _, l := range lines {
		table.Append(
			l.MatchDate,
			strconv.FormatInt(l.MatchID, 10),
			l.HomeTeam+" v "+l.AwayTeam,
			l.Team,
			strconv.Itoa(l.SecondsPlayed/60),
			strconv.Itoa(l.Goals),
			strconv.Itoa(l.Assists),
			strconv.Itoa(l.Shots),
			fmt.Sprintf("%.2f", l.ShotsXG),
			strconv.Itoa(l.Dribbles),
			strconv.Itoa(l.Completed),
			strconv.Itoa(l.Danger),
			fmt.Sprintf("%.2f", l.DangerXG),
		)
	}
	table.Render()
}

// PrintRuns prints recorded ingest runs.
func PrintRuns(w io.Writer, runs []model.IngestRun) {
	table := newTable(w)
	table.Header("RUN", "STARTED", "COMP", "SEASON", "WINDOW", "STORED", "SKIPPED", "TOOK")
	for _, r := range runs {
		table.Append(
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.CompetitionID),
			strconv.Itoa(r.SeasonID),
			strconv.Itoa(r.ShotWindow)+"s",
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Skipped),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
		)
	}
	table.Render()
}

func nameOrDash(names map[int64]string, id int64) string {
	if n := names[id]; n != "" {
		return n
	}
	if id == 0 {
		return "—"
	}
	return strconv.FormatInt(id, 10)
}
