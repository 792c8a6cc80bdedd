package aggregator

import (
	"sort"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// DefaultShotWindow is how many seconds after a dribble a team shot still counts.
const DefaultShotWindow = 15

// DangerDribbles returns every dribble of the match, period by period. A
// completed dribble is a danger dribble when a shot by the same team follows it
// within shotWindow seconds in the same period. The earliest such shot supplies
// the xG and goal flag; shots with identical times fall back to event id, then
// feed order.
func DangerDribbles(raw *model.RawMatch, shotWindow int) []model.DribbleRecord {
	if raw == nil {
		return nil
	}
	if shotWindow <= 0 {
		shotWindow = DefaultShotWindow
	}

	dribblesByPeriod := make(map[int][]model.Event)
	shotsByPeriod := make(map[int][]model.Event)
	for _, e := range raw.Events {
		switch e.Type {
		case model.EventDribble:
			dribblesByPeriod[e.Period] = append(dribblesByPeriod[e.Period], e)
		case model.EventShot:
			shotsByPeriod[e.Period] = append(shotsByPeriod[e.Period], e)
		}
	}

	var out []model.DribbleRecord
	for _, p := range periods {
		dribbles := dribblesByPeriod[p]
		if len(dribbles) == 0 {
			continue
		}
		sortByClock(dribbles)

		shots := shotsByPeriod[p]
		sort.SliceStable(shots, func(i, j int) bool {
			a, b := shots[i], shots[j]
			if a.ClockSeconds() != b.ClockSeconds() {
				return a.ClockSeconds() < b.ClockSeconds()
			}
			if a.ID != b.ID {
				return a.ID < b.ID
			}
			return a.Index < b.Index
		})
		periodStart := PeriodStart(p)

		for _, d := range dribbles {
			rec := model.DribbleRecord{
				MatchID:      raw.MatchID,
				EventID:      d.ID,
				Period:       d.Period,
				ClockSeconds: d.ClockSeconds(),
				Team:         d.Team,
				PlayerID:     d.PlayerID,
				Outcome:      d.Outcome,
				X:            d.X,
				Y:            d.Y,
			}
			if d.Outcome == model.OutcomeComplete {
				if shot, ok := firstShotAfter(d, shots, shotWindow, periodStart); ok {
					rec.IsDanger = true
					rec.XGFromDribble = shot.ShotXG
					rec.LeadsToGoal = shot.Outcome == model.OutcomeGoal
				}
			}
			out = append(out, rec)
		}
	}
	return out
}

// firstShotAfter returns the first shot (shots must be sorted by time) whose
// window [max(shot-window, periodStart), shot] contains the dribble.
func firstShotAfter(d model.Event, shots []model.Event, window, periodStart int) (model.Event, bool) {
	dt := d.ClockSeconds()
	for _, s := range shots {
		if s.Team != d.Team {
			continue
		}
		st := s.ClockSeconds()
		if st < dt {
			continue
		}
		lo := st - window
		if lo < periodStart {
			lo = periodStart
		}
		if lo <= dt {
			return s, true
		}
		// Shots are time-ordered, so every later window starts after dt too.
		return model.Event{}, false
	}
	return model.Event{}, false
}
