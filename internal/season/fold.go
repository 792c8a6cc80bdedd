// Package season folds per-match results into per-player season tables.
package season

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MarijnSt/soccermatics-project-1/internal/aggregator"
	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// ObserveFunc is called once per aggregated match with the time it took.
// Calls may come from several goroutines.
type ObserveFunc func(res *model.MatchResult, took time.Duration)

// AggregateAll runs aggregator.Aggregate over every match on at most workers
// goroutines. Results are ordered by match id regardless of scheduling.
func AggregateAll(ctx context.Context, matches []*model.RawMatch, workers int, observe ObserveFunc, opts ...aggregator.Option) ([]*model.MatchResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]*model.MatchResult, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range matches {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("aggregate match #%d: nil match", i)
			}
			start := time.Now()
			res, err := aggregator.Aggregate(gctx, m, opts...)
			if err != nil {
				return fmt.Errorf("aggregate match %d: %w", m.MatchID, err)
			}
			if observe != nil {
				observe(res, time.Since(start))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Summary.MatchID < results[j].Summary.MatchID
	})
	return results, nil
}
