package storage

import (
	"fmt"
	"strings"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// DribbleFilter restricts a dribble query. Zero values match everything.
type DribbleFilter struct {
	PlayerIDs  []int64
	MatchID    int64
	DangerOnly bool
}

// DBOverview holds aggregate counts for the summary command.
type DBOverview struct {
	TotalMatches   int
	EarliestMatch  string
	LatestMatch    string
	Competitions   int
	UniquePlayers  int
	TotalDribbles  int
	DangerDribbles int
	GoalDribbles   int
	Anomalies      int
}

// TeamDribbleStats holds one team's dribble totals across stored matches.
type TeamDribbleStats struct {
	Team      string
	Matches   int
	Dribbles  int
	Completed int
	Danger    int
	DangerXG  float64
}

// PlayerHistory returns one line per (player, match) for the given players,
// ordered by player id then match date.
func (db *DB) PlayerHistory(playerIDs []int64) ([]model.PlayerMatchLine, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(playerIDs))
	for _, id := range playerIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT t.player_id,
		       COALESCE(s.name, ''), COALESCE(s.team, ''),
		       m.match_id, m.match_date, m.home_team, m.away_team,
		       t.seconds_played,
		       COALESCE(s.goals, 0), COALESCE(s.assists, 0), COALESCE(s.shots, 0), COALESCE(s.shots_xg, 0),
		       COALESCE(d.attempted, 0), COALESCE(d.completed, 0), COALESCE(d.danger, 0), COALESCE(d.danger_xg, 0)
		FROM player_match_time t
		JOIN matches m ON m.match_id = t.match_id
		LEFT JOIN player_match_stats s ON s.match_id = t.match_id AND s.player_id = t.player_id
		LEFT JOIN (
		    SELECT match_id, player_id,
		           COUNT(*) AS attempted,
		           SUM(CASE WHEN outcome = 'Complete' THEN 1 ELSE 0 END) AS completed,
		           SUM(is_danger) AS danger,
		           SUM(CASE WHEN is_danger = 1 THEN xg_from_dribble ELSE 0 END) AS danger_xg
		    FROM dribbles GROUP BY match_id, player_id
		) d ON d.match_id = t.match_id AND d.player_id = t.player_id
		WHERE t.player_id IN (%s)
		ORDER BY t.player_id, m.match_date, m.match_id`, placeholders(len(playerIDs)))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchLine
	for rows.Next() {
		var l model.PlayerMatchLine
		if err := rows.Scan(&l.PlayerID, &l.Name, &l.Team,
			&l.MatchID, &l.MatchDate, &l.HomeTeam, &l.AwayTeam,
			&l.SecondsPlayed, &l.Goals, &l.Assists, &l.Shots, &l.ShotsXG,
			&l.Dribbles, &l.Completed, &l.Danger, &l.DangerXG); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Dribbles returns stored dribble rows matching f, ordered by match, period and clock.
func (db *DB) Dribbles(f DribbleFilter) ([]model.DribbleRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(f.PlayerIDs) > 0 {
		conds = append(conds, fmt.Sprintf("player_id IN (%s)", placeholders(len(f.PlayerIDs))))
		for _, id := range f.PlayerIDs {
			args = append(args, id)
		}
	}
	if f.MatchID != 0 {
		conds = append(conds, "match_id = ?")
		args = append(args, f.MatchID)
	}
	if f.DangerOnly {
		conds = append(conds, "is_danger = 1")
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := db.conn.Query(`
		SELECT match_id, event_id, period, clock_seconds, team, player_id, outcome, x, y,
		       is_danger, xg_from_dribble, leads_to_goal
		FROM dribbles `+where+`
		ORDER BY match_id, seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DribbleRecord
	for rows.Next() {
		d, err := scanDribble(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDBOverview returns aggregate counts across the whole store.
func (db *DB) GetDBOverview() (*DBOverview, error) {
	var ov DBOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(MIN(match_date), ''), COALESCE(MAX(match_date), ''),
		       COUNT(DISTINCT competition || '/' || season)
		FROM matches`).Scan(&ov.TotalMatches, &ov.EarliestMatch, &ov.LatestMatch, &ov.Competitions)
	if err != nil {
		return nil, fmt.Errorf("overview matches: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(DISTINCT player_id) FROM player_match_time`).Scan(&ov.UniquePlayers); err != nil {
		return nil, fmt.Errorf("overview players: %w", err)
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(is_danger), 0), COALESCE(SUM(leads_to_goal), 0)
		FROM dribbles`).Scan(&ov.TotalDribbles, &ov.DangerDribbles, &ov.GoalDribbles)
	if err != nil {
		return nil, fmt.Errorf("overview dribbles: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM anomalies`).Scan(&ov.Anomalies); err != nil {
		return nil, fmt.Errorf("overview anomalies: %w", err)
	}
	return &ov, nil
}

// TeamDribbles returns per-team dribble totals, most danger dribbles first.
func (db *DB) TeamDribbles() ([]TeamDribbleStats, error) {
	rows, err := db.conn.Query(`
		SELECT team,
		       COUNT(DISTINCT match_id),
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'Complete' THEN 1 ELSE 0 END),
		       SUM(is_danger),
		       SUM(CASE WHEN is_danger = 1 THEN xg_from_dribble ELSE 0 END)
		FROM dribbles
		GROUP BY team
		ORDER BY SUM(is_danger) DESC, team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamDribbleStats
	for rows.Next() {
		var t TeamDribbleStats
		if err := rows.Scan(&t.Team, &t.Matches, &t.Dribbles, &t.Completed, &t.Danger, &t.DangerXG); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
