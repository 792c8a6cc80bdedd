package aggregator

import (
	"sort"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// CountingStats returns goals, assists, shots and shot xG for every player
// linked to an event of the match, plus how often each player logged an event
// in each position. Shoot-out events do not count.
func CountingStats(raw *model.RawMatch) ([]model.PlayerMatchStats, []model.PlayerPosition) {
	if raw == nil {
		return nil, nil
	}

	statsByPlayer := make(map[int64]*model.PlayerMatchStats)
	type posKey struct {
		playerID   int64
		positionID int
	}
	posCount := make(map[posKey]int)

	for _, e := range raw.Events {
		if e.PlayerID == 0 {
			continue
		}
		s := statsByPlayer[e.PlayerID]
		if s == nil {
			s = &model.PlayerMatchStats{MatchID: raw.MatchID, PlayerID: e.PlayerID}
			statsByPlayer[e.PlayerID] = s
		}
		if s.Name == "" {
			s.Name = e.PlayerName
		}
		if s.Team == "" {
			s.Team = e.Team
		}
		if e.PositionID != 0 {
			posCount[posKey{e.PlayerID, e.PositionID}]++
		}
		if e.Period == model.PenaltyShootoutPeriod {
			continue
		}
		if e.Type == model.EventShot {
			s.Shots++
			s.ShotsXG += e.ShotXG
			if e.Outcome == model.OutcomeGoal {
				s.Goals++
			}
		}
		if e.PassGoalAssist {
			s.Assists++
		}
	}

	stats := make([]model.PlayerMatchStats, 0, len(statsByPlayer))
	for _, s := range statsByPlayer {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].PlayerID < stats[j].PlayerID })

	positions := make([]model.PlayerPosition, 0, len(posCount))
	for k, n := range posCount {
		positions = append(positions, model.PlayerPosition{
			MatchID:    raw.MatchID,
			PlayerID:   k.playerID,
			PositionID: k.positionID,
			Events:     n,
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].PlayerID != positions[j].PlayerID {
			return positions[i].PlayerID < positions[j].PlayerID
		}
		return positions[i].PositionID < positions[j].PositionID
	})
	return stats, positions
}
