package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// matchTables are the per-match output tables, cleared before a match is re-stored.
var matchTables = []string{
	"period_clocks",
	"player_match_time",
	"dribbles",
	"player_match_stats",
	"player_positions",
	"anomalies",
}

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatchResult stores every output of one match in a single transaction.
// Re-storing a match replaces its previous rows.
func (db *DB) InsertMatchResult(res *model.MatchResult) error {
	if res == nil {
		return fmt.Errorf("insert match result: nil result")
	}
	matchID := res.Summary.MatchID

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range matchTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
			return fmt.Errorf("clear %s for %d: %w", table, matchID, err)
		}
	}

	s := res.Summary
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO matches(match_id, competition, season, match_date, home_team, away_team,
			home_score, away_score, event_count, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.MatchID, s.Competition, s.Season, s.MatchDate, s.HomeTeam, s.AwayTeam,
		s.HomeScore, s.AwayScore, s.EventCount, s.RunID,
	); err != nil {
		return fmt.Errorf("insert match %d: %w", matchID, err)
	}

	if err := execEach(tx, `
		INSERT INTO period_clocks(match_id, period, nominal_length, measured_length, stoppage_time)
		VALUES (?,?,?,?,?)`, len(res.Clocks), func(i int) []any {
		c := res.Clocks[i]
		return []any{matchID, c.Period, c.NominalLength, c.MeasuredLength, c.StoppageTime}
	}); err != nil {
		return fmt.Errorf("insert period_clocks: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO player_match_time(match_id, player_id, seconds_played) VALUES (?,?,?)`,
		len(res.PlayingTime), func(i int) []any {
			p := res.PlayingTime[i]
			return []any{matchID, p.PlayerID, p.SecondsPlayed}
		}); err != nil {
		return fmt.Errorf("insert player_match_time: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO dribbles(match_id, seq, event_id, period, clock_seconds, team, player_id, outcome,
			x, y, is_danger, xg_from_dribble, leads_to_goal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`, len(res.Dribbles), func(i int) []any {
		d := res.Dribbles[i]
		return []any{matchID, i, d.EventID, d.Period, d.ClockSeconds, d.Team, d.PlayerID, d.Outcome,
			d.X, d.Y, boolInt(d.IsDanger), d.XGFromDribble, boolInt(d.LeadsToGoal)}
	}); err != nil {
		return fmt.Errorf("insert dribbles: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO player_match_stats(match_id, player_id, name, team, goals, assists, shots, shots_xg)
		VALUES (?,?,?,?,?,?,?,?)`, len(res.Stats), func(i int) []any {
		p := res.Stats[i]
		return []any{matchID, p.PlayerID, p.Name, p.Team, p.Goals, p.Assists, p.Shots, p.ShotsXG}
	}); err != nil {
		return fmt.Errorf("insert player_match_stats: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO player_positions(match_id, player_id, position_id, events) VALUES (?,?,?,?)`,
		len(res.Positions), func(i int) []any {
			p := res.Positions[i]
			return []any{matchID, p.PlayerID, p.PositionID, p.Events}
		}); err != nil {
		return fmt.Errorf("insert player_positions: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO anomalies(match_id, seq, player_id, kind, detail) VALUES (?,?,?,?,?)`,
		len(res.Anomalies), func(i int) []any {
			a := res.Anomalies[i]
			return []any{matchID, i, a.PlayerID, string(a.Kind), a.Detail}
		}); err != nil {
		return fmt.Errorf("insert anomalies: %w", err)
	}

	return tx.Commit()
}

// execEach prepares query once and executes it n times with args(i).
func execEach(tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// DeleteMatch removes a match and all of its outputs.
func (db *DB) DeleteMatch(matchID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range append([]string{"matches"}, matchTables...) {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
			return fmt.Errorf("delete %s for %d: %w", table, matchID, err)
		}
	}
	return tx.Commit()
}

const matchColumns = `match_id, competition, season, match_date, home_team, away_team,
	home_score, away_score, event_count, run_id`

func scanMatch(sc interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	err := sc.Scan(&s.MatchID, &s.Competition, &s.Season, &s.MatchDate, &s.HomeTeam, &s.AwayTeam,
		&s.HomeScore, &s.AwayScore, &s.EventCount, &s.RunID)
	return s, err
}

// ListMatches returns all stored match summaries ordered by match date, then id.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY match_date, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatch returns one stored match summary, or ErrNotFound.
func (db *DB) GetMatch(matchID int64) (*model.MatchSummary, error) {
	s, err := scanMatch(db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadMatchResult reads back every stored output of one match.
func (db *DB) LoadMatchResult(matchID int64) (*model.MatchResult, error) {
	summary, err := db.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	results, err := db.loadResults([]model.MatchSummary{*summary}, "WHERE match_id = ?", matchID)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// LoadMatchResults reads back every stored match, ordered by match id.
func (db *DB) LoadMatchResults() ([]*model.MatchResult, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY match_id`)
	if err != nil {
		return nil, err
	}
	var summaries []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	return db.loadResults(summaries, "")
}

// loadResults fills one MatchResult per summary from the output tables,
// restricted by an optional WHERE clause.
func (db *DB) loadResults(summaries []model.MatchSummary, where string, args ...any) ([]*model.MatchResult, error) {
	out := make([]*model.MatchResult, len(summaries))
	byID := make(map[int64]*model.MatchResult, len(summaries))
	for i, s := range summaries {
		out[i] = &model.MatchResult{Summary: s}
		byID[s.MatchID] = out[i]
	}

	type loader struct {
		query string
		scan  func(rows *sql.Rows) (int64, func(*model.MatchResult), error)
	}
	loaders := []loader{
		{`SELECT match_id, period, nominal_length, measured_length, stoppage_time
			FROM period_clocks ` + where + ` ORDER BY match_id, period`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				var c model.PeriodClock
				err := rows.Scan(&c.MatchID, &c.Period, &c.NominalLength, &c.MeasuredLength, &c.StoppageTime)
				return c.MatchID, func(r *model.MatchResult) { r.Clocks = append(r.Clocks, c) }, err
			}},
		{`SELECT match_id, player_id, seconds_played
			FROM player_match_time ` + where + ` ORDER BY match_id, player_id`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				var p model.PlayerMatchTime
				err := rows.Scan(&p.MatchID, &p.PlayerID, &p.SecondsPlayed)
				return p.MatchID, func(r *model.MatchResult) { r.PlayingTime = append(r.PlayingTime, p) }, err
			}},
		{`SELECT match_id, event_id, period, clock_seconds, team, player_id, outcome, x, y,
				is_danger, xg_from_dribble, leads_to_goal
			FROM dribbles ` + where + ` ORDER BY match_id, seq`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				d, err := scanDribble(rows)
				return d.MatchID, func(r *model.MatchResult) { r.Dribbles = append(r.Dribbles, d) }, err
			}},
		{`SELECT match_id, player_id, name, team, goals, assists, shots, shots_xg
			FROM player_match_stats ` + where + ` ORDER BY match_id, player_id`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				var p model.PlayerMatchStats
				err := rows.Scan(&p.MatchID, &p.PlayerID, &p.Name, &p.Team, &p.Goals, &p.Assists, &p.Shots, &p.ShotsXG)
				return p.MatchID, func(r *model.MatchResult) { r.Stats = append(r.Stats, p) }, err
			}},
		{`SELECT match_id, player_id, position_id, events
			FROM player_positions ` + where + ` ORDER BY match_id, player_id, position_id`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				var p model.PlayerPosition
				err := rows.Scan(&p.MatchID, &p.PlayerID, &p.PositionID, &p.Events)
				return p.MatchID, func(r *model.MatchResult) { r.Positions = append(r.Positions, p) }, err
			}},
		{`SELECT match_id, player_id, kind, detail
			FROM anomalies ` + where + ` ORDER BY match_id, seq`,
			func(rows *sql.Rows) (int64, func(*model.MatchResult), error) {
				var a model.Anomaly
				var kind string
				err := rows.Scan(&a.MatchID, &a.PlayerID, &kind, &a.Detail)
				a.Kind = model.AnomalyKind(kind)
				return a.MatchID, func(r *model.MatchResult) { r.Anomalies = append(r.Anomalies, a) }, err
			}},
	}

	for _, l := range loaders {
		if err := db.loadInto(l.query, args, byID, l.scan); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// loadInto runs query and attaches each scanned row to the result of its match.
// Rows of matches not in byID are skipped.
func (db *DB) loadInto(query string, args []any, byID map[int64]*model.MatchResult,
	scan func(*sql.Rows) (int64, func(*model.MatchResult), error)) error {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		matchID, add, err := scan(rows)
		if err != nil {
			return fmt.Errorf("scan results: %w", err)
		}
		if r := byID[matchID]; r != nil {
			add(r)
		}
	}
	return rows.Err()
}

func scanDribble(rows *sql.Rows) (model.DribbleRecord, error) {
	var d model.DribbleRecord
	var isDanger, leadsToGoal int
	err := rows.Scan(&d.MatchID, &d.EventID, &d.Period, &d.ClockSeconds, &d.Team, &d.PlayerID, &d.Outcome,
		&d.X, &d.Y, &isDanger, &d.XGFromDribble, &leadsToGoal)
	d.IsDanger = isDanger != 0
	d.LeadsToGoal = leadsToGoal != 0
	return d, err
}

// InsertRun records an ingest run. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRun(run model.IngestRun) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO ingest_runs(run_id, started_at, finished_at, competition_id, season_id,
			shot_window, matches, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.CompetitionID, run.SeasonID, run.ShotWindow, run.Matches, run.Skipped,
	)
	return err
}

// ListRuns returns ingest runs, most recent first.
func (db *DB) ListRuns() ([]model.IngestRun, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, started_at, finished_at, competition_id, season_id, shot_window, matches, skipped
		FROM ingest_runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.IngestRun
	for rows.Next() {
		var r model.IngestRun
		var started, finished string
		if err := rows.Scan(&r.RunID, &started, &finished, &r.CompetitionID, &r.SeasonID,
			&r.ShotWindow, &r.Matches, &r.Skipped); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
