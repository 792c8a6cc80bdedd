// Package source provides match lists and event streams in StatsBomb open-data format.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/parser"
)

// ErrMatchNotFound is returned when a source has no events for a match.
var ErrMatchNotFound = errors.New("match not found")

// Source supplies match metadata and events. Implementations are passed in
// explicitly by callers.
type Source interface {
	// Matches returns the matches of one competition season, ordered by match id.
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.RawMatch, error)
	// Events returns every event of one match in feed order.
	Events(ctx context.Context, matchID int64) ([]model.Event, error)
}

// Dir reads the StatsBomb open-data layout from a local directory:
//
//	<root>/matches/<competition_id>/<season_id>.json
//	<root>/events/<match_id>.json
type Dir struct {
	root string
}

// NewDir returns a Source rooted at dir.
func NewDir(dir string) *Dir {
	return &Dir{root: dir}
}

func (d *Dir) Matches(ctx context.Context, competitionID, seasonID int) ([]model.RawMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, "matches", strconv.Itoa(competitionID), strconv.Itoa(seasonID)+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matches: %w", err)
	}
	defer f.Close()
	return parser.ParseMatches(f)
}

func (d *Dir) Events(ctx context.Context, matchID int64) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, "events", strconv.FormatInt(matchID, 10)+".json")
	events, err := parser.ParseEventsFile(path, matchID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("events for %d: %w", matchID, ErrMatchNotFound)
	}
	return events, err
}

// Memory is an in-memory Source, keyed by competition/season pair.
type Memory struct {
	seasons map[[2]int][]int64
	matches map[int64]*model.RawMatch
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		seasons: make(map[[2]int][]int64),
		matches: make(map[int64]*model.RawMatch),
	}
}

// Add registers a match under a competition season.
func (m *Memory) Add(competitionID, seasonID int, match *model.RawMatch) {
	key := [2]int{competitionID, seasonID}
	if _, ok := m.matches[match.MatchID]; !ok {
		m.seasons[key] = append(m.seasons[key], match.MatchID)
	}
	m.matches[match.MatchID] = match
}

func (m *Memory) Matches(_ context.Context, competitionID, seasonID int) ([]model.RawMatch, error) {
	ids := append([]int64(nil), m.seasons[[2]int{competitionID, seasonID}]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.RawMatch, 0, len(ids))
	for _, id := range ids {
		meta := *m.matches[id]
		meta.Events = nil
		out = append(out, meta)
	}
	return out, nil
}

func (m *Memory) Events(_ context.Context, matchID int64) ([]model.Event, error) {
	match, ok := m.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("events for %d: %w", matchID, ErrMatchNotFound)
	}
	return append([]model.Event(nil), match.Events...), nil
}

// Load returns one RawMatch per match of a competition season, events attached.
func Load(ctx context.Context, src Source, competitionID, seasonID int) ([]*model.RawMatch, error) {
	metas, err := src.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]*model.RawMatch, 0, len(metas))
	for i := range metas {
		events, err := src.Events(ctx, metas[i].MatchID)
		if err != nil {
			return nil, fmt.Errorf("load match %d: %w", metas[i].MatchID, err)
		}
		m := metas[i]
		m.Events = events
		out = append(out, &m)
	}
	return out, nil
}
