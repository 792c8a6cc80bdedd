package aggregator

import (
	"time"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// Periods covered by the engines. Penalty shoot-outs (period 5) are excluded.
var periods = []int{1, 2, 3, 4}

// nominalMinutes is the regulation length of each period.
var nominalMinutes = map[int]int{1: 45, 2: 45, 3: 15, 4: 15}

// startMinutes is the match-clock minute at which each period kicks off.
var startMinutes = map[int]int{1: 0, 2: 45, 3: 90, 4: 105}

// PeriodStart returns the match-clock second at which period p starts.
func PeriodStart(p int) int {
	return startMinutes[p] * 60
}

// BuildPeriodClocks derives one PeriodClock per period that has a Half End marker.
// Periods without a marker are omitted.
func BuildPeriodClocks(raw *model.RawMatch) []model.PeriodClock {
	if raw == nil {
		return nil
	}

	// First Half End marker per period. The feed emits one per team; the
	// earliest wins and feed order only breaks exact ties.
	ends := make(map[int]model.Event)
	for _, e := range raw.Events {
		if e.Type != model.EventHalfEnd {
			continue
		}
		if _, ok := nominalMinutes[e.Period]; !ok {
			continue
		}
		prev, seen := ends[e.Period]
		if !seen || halfEndBefore(e, prev) {
			ends[e.Period] = e
		}
	}

	var clocks []model.PeriodClock
	for _, p := range periods {
		e, ok := ends[p]
		if !ok {
			continue
		}
		nominal := nominalMinutes[p] * 60
		measured := measuredLength(e)
		clocks = append(clocks, model.PeriodClock{
			MatchID:        raw.MatchID,
			Period:         p,
			NominalLength:  nominal,
			MeasuredLength: measured,
			StoppageTime:   measured - nominal,
		})
	}
	return clocks
}

// measuredLength returns the seconds elapsed from the start of the event's period.
// The period-relative timestamp is preferred; fractional seconds are dropped.
func measuredLength(e model.Event) int {
	if e.HasTimestamp {
		return int(e.Timestamp / time.Second)
	}
	return e.ClockSeconds() - PeriodStart(e.Period)
}

func halfEndBefore(a, b model.Event) bool {
	ma, mb := measuredLength(a), measuredLength(b)
	if ma != mb {
		return ma < mb
	}
	return a.Index < b.Index
}
