package parser

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// ParseEventsFile reads a StatsBomb events file and returns its events.
func ParseEventsFile(path string, matchID int64) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()
	return ParseEvents(f, matchID)
}

// ParseEvents decodes a JSON array of StatsBomb events. Events carrying their
// own match_id keep it (pre-concatenated feeds); the others get matchID.
// Unknown fields are ignored and missing optional fields are left empty.
func ParseEvents(r io.Reader, matchID int64) ([]model.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse events: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("parse events: expected a JSON array")
	}

	var (
		events  []model.Event
		parseErr error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		e, err := decodeEvent(v, matchID)
		if err != nil {
			parseErr = fmt.Errorf("parse event %d: %w", len(events), err)
			return false
		}
		events = append(events, e)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return events, nil
}

func decodeEvent(v gjson.Result, matchID int64) (model.Event, error) {
	e := model.Event{
		ID:         v.Get("id").String(),
		MatchID:    matchID,
		Index:      int(v.Get("index").Int()),
		Period:     int(v.Get("period").Int()),
		Minute:     int(v.Get("minute").Int()),
		Second:     int(v.Get("second").Int()),
		Type:       model.EventType(v.Get("type.name").String()),
		Team:       v.Get("team.name").String(),
		PlayerID:   v.Get("player.id").Int(),
		PlayerName: v.Get("player.name").String(),
		PositionID: int(v.Get("position.id").Int()),
	}
	if id := v.Get("match_id"); id.Exists() {
		e.MatchID = id.Int()
	}

	if ts := v.Get("timestamp"); ts.Exists() && ts.String() != "" {
		d, err := ParseTimestamp(ts.String())
		if err != nil {
			return e, err
		}
		e.Timestamp = d
		e.HasTimestamp = true
	}

	if loc := v.Get("location").Array(); len(loc) >= 2 {
		e.X = loc[0].Float()
		e.Y = loc[1].Float()
		e.HasLocation = true
	}

	switch e.Type {
	case model.EventDribble:
		e.Outcome = v.Get("dribble.outcome.name").String()
	case model.EventShot:
		e.Outcome = v.Get("shot.outcome.name").String()
		e.ShotXG = v.Get("shot.statsbomb_xg").Float()
	case model.EventSubstitution:
		e.Outcome = v.Get("substitution.outcome.name").String()
		e.ReplacementID = v.Get("substitution.replacement.id").Int()
	case model.EventFoulCommitted:
		e.Card = v.Get("foul_committed.card.name").String()
	case model.EventBadBehaviour:
		e.Card = v.Get("bad_behaviour.card.name").String()
	case model.EventPass:
		e.Outcome = v.Get("pass.outcome.name").String()
		e.PassGoalAssist = v.Get("pass.goal_assist").Bool()
	}
	return e, nil
}

// ParseTimestamp parses a period-relative "HH:MM:SS.fff" timestamp.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse timestamp %q: want HH:MM:SS.fff", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	if h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("parse timestamp %q: negative component", s)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)).Round(time.Millisecond), nil
}

// ParseMatches decodes a StatsBomb matches file into match metadata. The
// returned RawMatch values carry no events.
func ParseMatches(r io.Reader) ([]model.RawMatch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse matches: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("parse matches: expected a JSON array")
	}

	var matches []model.RawMatch
	for _, v := range root.Array() {
		id := v.Get("match_id")
		if !id.Exists() {
			return nil, fmt.Errorf("parse matches: entry %d has no match_id", len(matches))
		}
		matches = append(matches, model.RawMatch{
			MatchID:     id.Int(),
			Competition: v.Get("competition.competition_name").String(),
			Season:      v.Get("season.season_name").String(),
			MatchDate:   v.Get("match_date").String(),
			HomeTeam:    v.Get("home_team.home_team_name").String(),
			AwayTeam:    v.Get("away_team.away_team_name").String(),
			HomeScore:   int(v.Get("home_score").Int()),
			AwayScore:   int(v.Get("away_score").Int()),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchID < matches[j].MatchID })
	return matches, nil
}

// GroupByMatch splits a pre-concatenated event stream into one RawMatch per
// match id, ordered by match id. Event order inside a match is preserved.
func GroupByMatch(events []model.Event) []*model.RawMatch {
	byID := make(map[int64]*model.RawMatch)
	for _, e := range events {
		m := byID[e.MatchID]
		if m == nil {
			m = &model.RawMatch{MatchID: e.MatchID}
			byID[e.MatchID] = m
		}
		m.Events = append(m.Events, e)
	}
	out := make([]*model.RawMatch, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}
