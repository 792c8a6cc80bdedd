package aggregator

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarijnSt/soccermatics-project-1/internal/logger"
	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// Option configures Aggregate.
type Option func(*options)

type options struct {
	shotWindow int
	log        logger.Logger
}

// WithShotWindow sets the danger-dribble window in seconds.
func WithShotWindow(seconds int) Option {
	return func(o *options) {
		if seconds > 0 {
			o.shotWindow = seconds
		}
	}
}

// WithLogger sets the logger used to report data-integrity anomalies.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Aggregate runs every per-match computation over a RawMatch. The period
// clocks are built first; playing time and danger dribbles both read them.
func Aggregate(ctx context.Context, raw *model.RawMatch, opts ...Option) (*model.MatchResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil RawMatch")
	}
	o := options{shotWindow: DefaultShotWindow, log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	events := make([]model.Event, len(raw.Events))
	copy(events, raw.Events)
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.ClockSeconds() < b.ClockSeconds()
	})
	match := *raw
	match.Events = events

	// ---- Pass 1: period clocks. ----
	clocks := BuildPeriodClocks(&match)
	if len(clocks) == 0 && len(events) > 0 {
		o.log.Warn(ctx, "no half end markers; playing time collapses to zero",
			logger.Int64("match_id", raw.MatchID))
	}

	// ---- Pass 2: playing time. ----
	playingTime, anomalies := PlayingTime(&match, clocks)
	for _, a := range anomalies {
		o.log.Warn(ctx, "playing time anomaly",
			logger.Int64("match_id", a.MatchID),
			logger.Int64("player_id", a.PlayerID),
			logger.String("kind", string(a.Kind)),
			logger.String("detail", a.Detail))
	}

	// ---- Pass 3: danger dribbles. ----
	dribbles := DangerDribbles(&match, o.shotWindow)

	// ---- Pass 4: counting stats and positions. ----
	stats, positions := CountingStats(&match)

	return &model.MatchResult{
		Summary: model.MatchSummary{
			MatchID:     raw.MatchID,
			Competition: raw.Competition,
			Season:      raw.Season,
			MatchDate:   raw.MatchDate,
			HomeTeam:    raw.HomeTeam,
			AwayTeam:    raw.AwayTeam,
			HomeScore:   raw.HomeScore,
			AwayScore:   raw.AwayScore,
			EventCount:  len(raw.Events),
		},
		Clocks:      clocks,
		PlayingTime: playingTime,
		Dribbles:    dribbles,
		Stats:       stats,
		Positions:   positions,
		Anomalies:   anomalies,
	}, nil
}
