package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

const sampleEvents = `[
  {"id": "e1", "index": 1, "period": 1, "timestamp": "00:00:00.000", "minute": 0, "second": 0,
   "type": {"id": 35, "name": "Starting XI"}, "team": {"id": 772, "name": "Spain"}},
  {"id": "e2", "index": 2, "period": 1, "timestamp": "00:16:40.250", "minute": 16, "second": 40,
   "type": {"id": 14, "name": "Dribble"}, "team": {"id": 772, "name": "Spain"},
   "player": {"id": 5001, "name": "Lamine Yamal"}, "position": {"id": 21, "name": "Left Wing"},
   "location": [80.1, 20.5], "dribble": {"outcome": {"id": 8, "name": "Complete"}}},
  {"id": "e3", "index": 3, "period": 1, "timestamp": "00:16:50.000", "minute": 16, "second": 50,
   "type": {"id": 16, "name": "Shot"}, "team": {"id": 772, "name": "Spain"},
   "player": {"id": 5002, "name": "Dani Olmo"},
   "shot": {"statsbomb_xg": 0.314, "outcome": {"id": 97, "name": "Goal"}}},
  {"id": "e4", "index": 4, "period": 2, "timestamp": "00:15:00.000", "minute": 60, "second": 0,
   "type": {"id": 19, "name": "Substitution"}, "team": {"id": 772, "name": "Spain"},
   "player": {"id": 5001, "name": "Lamine Yamal"},
   "substitution": {"outcome": {"name": "Tactical"}, "replacement": {"id": 5003, "name": "Ferran Torres"}}},
  {"id": "e5", "index": 5, "period": 2, "timestamp": "00:20:00.000", "minute": 65, "second": 0,
   "type": {"id": 22, "name": "Foul Committed"}, "team": {"id": 770, "name": "Germany"},
   "player": {"id": 6001, "name": "Antonio Rudiger"}, "foul_committed": {"card": {"id": 5, "name": "Red Card"}}},
  {"id": "e6", "index": 6, "period": 2, "timestamp": "00:47:03.900", "minute": 92, "second": 3,
   "type": {"id": 34, "name": "Half End"}, "team": {"id": 772, "name": "Spain"}},
  {"id": "e7", "index": 7, "period": 1, "minute": 30, "second": 2,
   "type": {"id": 30, "name": "Pass"}, "team": {"id": 772, "name": "Spain"},
   "player": {"id": 5002}, "pass": {"goal_assist": true}, "extra": {"ignored": [1, 2, 3]}}
]`

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents(strings.NewReader(sampleEvents), 3788741)
	require.NoError(t, err)
	require.Len(t, events, 7)

	dribble := events[1]
	assert.Equal(t, model.EventDribble, dribble.Type)
	assert.Equal(t, int64(3788741), dribble.MatchID)
	assert.Equal(t, int64(5001), dribble.PlayerID)
	assert.Equal(t, "Lamine Yamal", dribble.PlayerName)
	assert.Equal(t, 21, dribble.PositionID)
	assert.Equal(t, model.OutcomeComplete, dribble.Outcome)
	assert.Equal(t, 1000, dribble.ClockSeconds())
	assert.True(t, dribble.HasLocation)
	assert.InDelta(t, 80.1, dribble.X, 1e-9)

	shot := events[2]
	assert.Equal(t, model.OutcomeGoal, shot.Outcome)
	assert.InDelta(t, 0.314, shot.ShotXG, 1e-9)

	sub := events[3]
	assert.Equal(t, int64(5003), sub.ReplacementID)

	assert.True(t, events[4].IsDismissal())

	halfEnd := events[5]
	assert.Equal(t, model.EventHalfEnd, halfEnd.Type)
	assert.True(t, halfEnd.HasTimestamp)
	assert.Equal(t, 47*time.Minute+3*time.Second+900*time.Millisecond, halfEnd.Timestamp)

	pass := events[6]
	assert.False(t, pass.HasTimestamp, "missing timestamp must not be an error")
	assert.False(t, pass.HasLocation)
	assert.True(t, pass.PassGoalAssist)
	assert.Empty(t, pass.Card)
}

func TestParseEvents_KeepsOwnMatchID(t *testing.T) {
	input := `[{"match_id": 1, "period": 1, "type": {"name": "Pass"}},
	           {"match_id": 2, "period": 1, "type": {"name": "Pass"}},
	           {"period": 1, "type": {"name": "Pass"}}]`
	events, err := ParseEvents(strings.NewReader(input), 99)
	require.NoError(t, err)

	groups := GroupByMatch(events)
	require.Len(t, groups, 3)
	assert.Equal(t, int64(1), groups[0].MatchID)
	assert.Equal(t, int64(2), groups[1].MatchID)
	assert.Equal(t, int64(99), groups[2].MatchID)
}

func TestParseEvents_Invalid(t *testing.T) {
	_, err := ParseEvents(strings.NewReader(`{"id": "not-an-array"}`), 1)
	require.Error(t, err)

	_, err = ParseEvents(strings.NewReader(`[{"id": `), 1)
	require.Error(t, err)

	_, err = ParseEvents(strings.NewReader(`[{"type": {"name": "Pass"}, "timestamp": "bogus"}]`), 1)
	require.Error(t, err)
}

func TestParseEvents_Empty(t *testing.T) {
	events, err := ParseEvents(strings.NewReader(`[]`), 1)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:00.000", 0},
		{"00:45:12.345", 45*time.Minute + 12*time.Second + 345*time.Millisecond},
		{"01:02:03", time.Hour + 2*time.Minute + 3*time.Second},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "12:34", "aa:00:00.0", "00:-1:00.0"} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseMatches(t *testing.T) {
	input := `[
	  {"match_id": 3943043, "match_date": "2024-07-14", "home_score": 2, "away_score": 1,
	   "competition": {"competition_id": 55, "competition_name": "UEFA Euro"},
	   "season": {"season_id": 282, "season_name": "2024"},
	   "home_team": {"home_team_name": "Spain"}, "away_team": {"away_team_name": "England"}},
	  {"match_id": 3930158, "match_date": "2024-06-14",
	   "home_team": {"home_team_name": "Germany"}, "away_team": {"away_team_name": "Scotland"}}
	]`
	matches, err := ParseMatches(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, int64(3930158), matches[0].MatchID, "sorted by match id")
	final := matches[1]
	assert.Equal(t, "UEFA Euro", final.Competition)
	assert.Equal(t, "2024", final.Season)
	assert.Equal(t, "Spain", final.HomeTeam)
	assert.Equal(t, 2, final.HomeScore)
	assert.Empty(t, final.Events)

	_, err = ParseMatches(strings.NewReader(`[{"match_date": "2024-01-01"}]`))
	require.Error(t, err)
}
