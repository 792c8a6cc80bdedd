package season

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// Filter keeps players with at least minMinutes played and minDribbles attempted.
func Filter(rows []model.PlayerSeasonStats, minMinutes, minDribbles int) []model.PlayerSeasonStats {
	var out []model.PlayerSeasonStats
	for _, r := range rows {
		if r.Minutes() < minMinutes || r.AttemptedDribbles() < minDribbles {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sortKeys maps a --sort name to the value it orders by (descending).
var sortKeys = map[string]func(r *model.PlayerSeasonStats) float64{
	"minutes":        func(r *model.PlayerSeasonStats) float64 { return float64(r.PlayingTime) },
	"goals":          func(r *model.PlayerSeasonStats) float64 { return float64(r.Goals) },
	"assists":        func(r *model.PlayerSeasonStats) float64 { return float64(r.Assists) },
	"xg":             func(r *model.PlayerSeasonStats) float64 { return r.ShotsXG },
	"dribbles":       func(r *model.PlayerSeasonStats) float64 { return float64(r.AttemptedDribbles()) },
	"success":        func(r *model.PlayerSeasonStats) float64 { return r.DribbleSuccessRate() },
	"danger":         func(r *model.PlayerSeasonStats) float64 { return float64(r.DangerDribbles) },
	"danger_xg":      func(r *model.PlayerSeasonStats) float64 { return r.DangerDribblesXG },
	"danger_per90":   func(r *model.PlayerSeasonStats) float64 { return r.Per90[ColDangerDribbles] },
	"dribbles_per90": func(r *model.PlayerSeasonStats) float64 { return r.Per90[ColAttemptedDribbles] },
}

// SortKeys returns the accepted sort names.
func SortKeys() []string {
	keys := make([]string, 0, len(sortKeys))
	for k := range sortKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sort orders rows in place, highest value first; equal values keep player id order.
func Sort(rows []model.PlayerSeasonStats, by string) error {
	key, ok := sortKeys[by]
	if !ok {
		return fmt.Errorf("unknown sort key %q (want one of %s)", by, strings.Join(SortKeys(), ", "))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(&rows[i]), key(&rows[j])
		if a != b {
			return a > b
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return nil
}
