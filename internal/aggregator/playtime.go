package aggregator

import (
	"fmt"
	"sort"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// lastStoppagePeriod is the last period whose stoppage time is charged to a
// player leaving early.
const lastStoppagePeriod = 3

// PlayingTime computes the seconds played by every player linked to an event of
// the match. clocks must come from BuildPeriodClocks for the same match.
//
// Every player starts at the full game time. Substitutions and dismissals
// subtract the time missed; inconsistent records are reported as anomalies and
// never applied twice. The result is clamped to [0, full game time].
func PlayingTime(raw *model.RawMatch, clocks []model.PeriodClock) ([]model.PlayerMatchTime, []model.Anomaly) {
	if raw == nil {
		return nil, nil
	}

	fullGameTime := 0
	stoppage := make(map[int]int, len(clocks))
	for _, c := range clocks {
		fullGameTime += c.MeasuredLength
		stoppage[c.Period] = c.StoppageTime
	}

	// stoppageBefore(p): stoppage accrued in recorded periods strictly before p.
	stoppageBefore := func(p int) int {
		total := 0
		for q, s := range stoppage {
			if q < p {
				total += s
			}
		}
		return total
	}
	// stoppageFrom(p): stoppage of recorded periods p..3.
	stoppageFrom := func(p int) int {
		total := 0
		for q, s := range stoppage {
			if q >= p && q <= lastStoppagePeriod {
				total += s
			}
		}
		return total
	}

	// ---- Pass 1: collect players and their adjusting events. ----

	players := make(map[int64]struct{})
	subOn := make(map[int64][]model.Event)
	subOff := make(map[int64][]model.Event)
	dismissals := make(map[int64][]model.Event)

	for _, e := range raw.Events {
		if e.PlayerID != 0 {
			players[e.PlayerID] = struct{}{}
		}
		if e.Type == model.EventSubstitution && e.ReplacementID != 0 {
			players[e.ReplacementID] = struct{}{}
		}
		if _, ok := nominalMinutes[e.Period]; !ok {
			continue // shoot-out or malformed period: no clock to adjust against
		}
		switch {
		case e.Type == model.EventSubstitution:
			if e.PlayerID != 0 {
				subOff[e.PlayerID] = append(subOff[e.PlayerID], e)
			}
			if e.ReplacementID != 0 {
				subOn[e.ReplacementID] = append(subOn[e.ReplacementID], e)
			}
		case e.IsDismissal() && e.PlayerID != 0:
			dismissals[e.PlayerID] = append(dismissals[e.PlayerID], e)
		}
	}
	for _, m := range []map[int64][]model.Event{subOn, subOff, dismissals} {
		for id := range m {
			sortByClock(m[id])
		}
	}

	// ---- Pass 2: subtract missed time per player. ----

	ids := make([]int64, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var anomalies []model.Anomaly
	flag := func(id int64, kind model.AnomalyKind, format string, args ...interface{}) {
		anomalies = append(anomalies, model.Anomaly{
			MatchID:  raw.MatchID,
			PlayerID: id,
			Kind:     kind,
			Detail:   fmt.Sprintf(format, args...),
		})
	}

	// missedAfter is the time a player misses when leaving the pitch at e.
	missedAfter := func(e model.Event) int {
		return fullGameTime - e.ClockSeconds() - stoppageBefore(e.Period) + stoppageFrom(e.Period)
	}

	out := make([]model.PlayerMatchTime, 0, len(ids))
	for _, id := range ids {
		played := fullGameTime

		if on := subOn[id]; len(on) > 0 {
			if len(on) > 1 {
				flag(id, model.AnomalyDuplicateSubOn, "subbed on %d times; only the first at %s is applied", len(on), clockLabel(on[0]))
			}
			played -= on[0].ClockSeconds() + stoppageBefore(on[0].Period)
		}

		off := subOff[id]
		if len(off) > 0 {
			if len(off) > 1 {
				flag(id, model.AnomalyDuplicateSubOff, "subbed off %d times; only the first at %s is applied", len(off), clockLabel(off[0]))
			}
			played -= missedAfter(off[0])
		}

		if reds := dismissals[id]; len(reds) > 0 {
			if len(reds) > 1 {
				flag(id, model.AnomalyDuplicateDismissal, "dismissed %d times; only the first at %s is applied", len(reds), clockLabel(reds[0]))
			}
			if len(off) > 0 {
				flag(id, model.AnomalySubOffAndDismissal, "subbed off at %s and dismissed at %s; both applied",
					clockLabel(off[0]), clockLabel(reds[0]))
			}
			played -= missedAfter(reds[0])
		}

		if played < 0 || played > fullGameTime {
			clamped := played
			if clamped < 0 {
				clamped = 0
			} else {
				clamped = fullGameTime
			}
			flag(id, model.AnomalyClamped, "computed %ds outside [0, %d]; clamped to %d", played, fullGameTime, clamped)
			played = clamped
		}

		out = append(out, model.PlayerMatchTime{
			MatchID:       raw.MatchID,
			PlayerID:      id,
			SecondsPlayed: played,
		})
	}
	return out, anomalies
}

func sortByClock(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.ClockSeconds() != b.ClockSeconds() {
			return a.ClockSeconds() < b.ClockSeconds()
		}
		return a.Index < b.Index
	})
}

func clockLabel(e model.Event) string {
	return fmt.Sprintf("P%d %02d:%02d", e.Period, e.Minute, e.Second)
}
