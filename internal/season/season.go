package season

import (
	"sort"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// Season table column names.
const (
	ColPlayingTime       = "playing_time"
	ColGoals             = "goals"
	ColAssists           = "assists"
	ColShots             = "shots"
	ColShotsXG           = "shots_xg"
	ColCompletedDribbles = "completed_dribbles"
	ColFailedDribbles    = "failed_dribbles"
	ColAttemptedDribbles = "attempted_dribbles"
	ColDangerDribbles    = "danger_dribbles"
	ColDangerDribblesXG  = "danger_dribbles_xg"
	ColDribblesToGoals   = "dribbles_to_goals"
)

// ZeroFillColumns are the stat columns defaulted to zero when a player is
// missing from one of the per-player tables (no dribbles, no shots, ...).
var ZeroFillColumns = []string{
	ColPlayingTime,
	ColGoals,
	ColAssists,
	ColShots,
	ColShotsXG,
	ColCompletedDribbles,
	ColFailedDribbles,
	ColDangerDribbles,
	ColDangerDribblesXG,
	ColDribblesToGoals,
}

// Per90Columns are converted to per-90-minute rates for players who played.
var Per90Columns = []string{
	ColGoals,
	ColAssists,
	ColShots,
	ColShotsXG,
	ColCompletedDribbles,
	ColFailedDribbles,
	ColAttemptedDribbles,
	ColDangerDribbles,
	ColDangerDribblesXG,
	ColDribblesToGoals,
}

// secondsPer90 is the length of a nominal match.
const secondsPer90 = 90 * 60

// Per90 scales value to a 90-minute rate. Zero playing time yields 0.
func Per90(value float64, secondsPlayed int) float64 {
	if secondsPlayed <= 0 {
		return 0
	}
	return value / float64(secondsPlayed) * secondsPer90
}

// table holds one per-player stats table keyed by player id.
type table map[int64]map[string]float64

func (t table) add(playerID int64, col string, v float64) {
	row := t[playerID]
	if row == nil {
		row = make(map[string]float64)
		t[playerID] = row
	}
	row[col] += v
}

// fillDefaults sets every ZeroFillColumns entry missing from row to zero.
func fillDefaults(row map[string]float64) {
	for _, col := range ZeroFillColumns {
		if _, ok := row[col]; !ok {
			row[col] = 0
		}
	}
}

type identity struct {
	name      string
	team      string
	positions map[int]int
	matches   map[int64]struct{}
}

// Build folds per-match results into one row per player, ordered by player id.
// Results may be in any order; the output does not depend on it.
func Build(results []*model.MatchResult) []model.PlayerSeasonStats {
	ordered := make([]*model.MatchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Summary.MatchID < ordered[j].Summary.MatchID
	})

	// ---- Pass 1: player identity (first name/team seen, merged positions). ----

	ids := make(map[int64]*identity)
	ident := func(playerID int64) *identity {
		p := ids[playerID]
		if p == nil {
			p = &identity{positions: make(map[int]int), matches: make(map[int64]struct{})}
			ids[playerID] = p
		}
		return p
	}
	for _, r := range ordered {
		for _, s := range r.Stats {
			p := ident(s.PlayerID)
			if p.name == "" {
				p.name = s.Name
			}
			if p.team == "" {
				p.team = s.Team
			}
		}
		for _, pos := range r.Positions {
			ident(pos.PlayerID).positions[pos.PositionID] += pos.Events
		}
	}

	// ---- Pass 2: per-player tables. ----

	playingTime := make(table)
	basic := make(table)
	dribbles := make(table)
	for _, r := range ordered {
		for _, pt := range r.PlayingTime {
			playingTime.add(pt.PlayerID, ColPlayingTime, float64(pt.SecondsPlayed))
			ident(pt.PlayerID).matches[r.Summary.MatchID] = struct{}{}
		}
		for _, s := range r.Stats {
			basic.add(s.PlayerID, ColGoals, float64(s.Goals))
			basic.add(s.PlayerID, ColAssists, float64(s.Assists))
			basic.add(s.PlayerID, ColShots, float64(s.Shots))
			basic.add(s.PlayerID, ColShotsXG, s.ShotsXG)
		}
		for _, d := range r.Dribbles {
			switch d.Outcome {
			case model.OutcomeComplete:
				dribbles.add(d.PlayerID, ColCompletedDribbles, 1)
			case model.OutcomeIncomplete:
				dribbles.add(d.PlayerID, ColFailedDribbles, 1)
			}
			if d.IsDanger {
				dribbles.add(d.PlayerID, ColDangerDribbles, 1)
				dribbles.add(d.PlayerID, ColDangerDribblesXG, d.XGFromDribble)
				if d.LeadsToGoal {
					dribbles.add(d.PlayerID, ColDribblesToGoals, 1)
				}
			}
		}
	}

	// ---- Pass 3: join tables on player id, zero-fill, per 90. ----

	for _, t := range []table{playingTime, basic, dribbles} {
		for id := range t {
			ident(id)
		}
	}
	playerIDs := make([]int64, 0, len(ids))
	for id := range ids {
		if id != 0 {
			playerIDs = append(playerIDs, id)
		}
	}
	sort.Slice(playerIDs, func(i, j int) bool { return playerIDs[i] < playerIDs[j] })

	out := make([]model.PlayerSeasonStats, 0, len(playerIDs))
	for _, id := range playerIDs {
		row := make(map[string]float64)
		for _, t := range []table{playingTime, basic, dribbles} {
			for col, v := range t[id] {
				row[col] = v
			}
		}
		fillDefaults(row)

		p := ids[id]
		s := model.PlayerSeasonStats{
			PlayerID:          id,
			Name:              p.name,
			Team:              p.team,
			Position:          PositionLabel(p.positions),
			Matches:           len(p.matches),
			PlayingTime:       int(row[ColPlayingTime]),
			Goals:             int(row[ColGoals]),
			Assists:           int(row[ColAssists]),
			Shots:             int(row[ColShots]),
			ShotsXG:           row[ColShotsXG],
			CompletedDribbles: int(row[ColCompletedDribbles]),
			FailedDribbles:    int(row[ColFailedDribbles]),
			DangerDribbles:    int(row[ColDangerDribbles]),
			DangerDribblesXG:  row[ColDangerDribblesXG],
			DribblesToGoals:   int(row[ColDribblesToGoals]),
		}
		row[ColAttemptedDribbles] = float64(s.AttemptedDribbles())

		s.Per90 = make(map[string]float64)
		if s.PlayingTime > 0 {
			for _, col := range Per90Columns {
				s.Per90[col] = Per90(row[col], s.PlayingTime)
			}
		}
		out = append(out, s)
	}
	return out
}
