package aggregator

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

const testMatchID int64 = 3788741

// IDs for test players.
const (
	playerA int64 = 5001
	playerB int64 = 5002
	playerC int64 = 5003
	playerD int64 = 5004
)

const (
	teamHome = "Spain"
	teamAway = "Germany"
)

// at builds an event of the given type at a match-clock second.
func at(typ model.EventType, period, clock int, team string, player int64) model.Event {
	return model.Event{
		MatchID:  testMatchID,
		Period:   period,
		Minute:   clock / 60,
		Second:   clock % 60,
		Type:     typ,
		Team:     team,
		PlayerID: player,
	}
}

// halfEnd builds a Half End marker at a match-clock second (no timestamp).
func halfEnd(period, clock int) model.Event {
	return at(model.EventHalfEnd, period, clock, teamHome, 0)
}

// regulation returns Half End markers for two halves with the given stoppage in seconds.
func regulation(stoppage1, stoppage2 int) []model.Event {
	return []model.Event{
		halfEnd(1, 45*60+stoppage1),
		halfEnd(2, 90*60+stoppage2),
	}
}

func sub(period, clock int, team string, off, on int64) model.Event {
	e := at(model.EventSubstitution, period, clock, team, off)
	e.ReplacementID = on
	return e
}

func redCard(period, clock int, team string, player int64) model.Event {
	e := at(model.EventFoulCommitted, period, clock, team, player)
	e.Card = model.CardRed
	return e
}

func dribble(period, clock int, team string, player int64, outcome string) model.Event {
	e := at(model.EventDribble, period, clock, team, player)
	e.Outcome = outcome
	return e
}

func shot(period, clock int, team string, player int64, xg float64, outcome string) model.Event {
	e := at(model.EventShot, period, clock, team, player)
	e.ShotXG = xg
	e.Outcome = outcome
	return e
}

// makeRaw assigns feed order and wraps events in a RawMatch.
func makeRaw(events ...model.Event) *model.RawMatch {
	for i := range events {
		events[i].Index = i
		events[i].MatchID = testMatchID
	}
	return &model.RawMatch{MatchID: testMatchID, Events: events}
}

func secondsPlayed(t *testing.T, rows []model.PlayerMatchTime, id int64) int {
	t.Helper()
	for _, r := range rows {
		if r.PlayerID == id {
			return r.SecondsPlayed
		}
	}
	t.Fatalf("player %d has no playing time row", id)
	return 0
}

func hasAnomaly(anoms []model.Anomaly, id int64, kind model.AnomalyKind) bool {
	for _, a := range anoms {
		if a.PlayerID == id && a.Kind == kind {
			return true
		}
	}
	return false
}

// ---- Period clock tests ----

func TestPeriodClocks_Regulation(t *testing.T) {
	raw := makeRaw(regulation(120, 270)...)
	clocks := BuildPeriodClocks(raw)
	if len(clocks) != 2 {
		t.Fatalf("expected 2 clocks, got %d", len(clocks))
	}
	if clocks[0].Period != 1 || clocks[0].MeasuredLength != 2820 || clocks[0].StoppageTime != 120 {
		t.Errorf("period 1: got %+v", clocks[0])
	}
	if clocks[1].Period != 2 || clocks[1].MeasuredLength != 2970 || clocks[1].StoppageTime != 270 {
		t.Errorf("period 2: got %+v", clocks[1])
	}
	if clocks[1].NominalLength != 45*60 {
		t.Errorf("period 2 nominal: want 2700, got %d", clocks[1].NominalLength)
	}
}

// TestPeriodClocks_PrefersTimestamp: the period-relative timestamp wins over minute/second.
func TestPeriodClocks_PrefersTimestamp(t *testing.T) {
	e := halfEnd(2, 92*60+59)
	e.HasTimestamp = true
	e.Timestamp = 47*time.Minute + 3*time.Second + 900*time.Millisecond
	clocks := BuildPeriodClocks(makeRaw(halfEnd(1, 45*60), e))

	if clocks[1].MeasuredLength != 47*60+3 {
		t.Errorf("expected measured 2823 from timestamp, got %d", clocks[1].MeasuredLength)
	}
	if clocks[1].StoppageTime != 123 {
		t.Errorf("expected stoppage 123, got %d", clocks[1].StoppageTime)
	}
}

// TestPeriodClocks_DuplicateMarkers: one marker per team; the first one is used.
func TestPeriodClocks_DuplicateMarkers(t *testing.T) {
	late := halfEnd(1, 47*60+2)
	late.Team = teamAway
	clocks := BuildPeriodClocks(makeRaw(late, halfEnd(1, 47*60)))
	if len(clocks) != 1 || clocks[0].MeasuredLength != 47*60 {
		t.Fatalf("expected single clock of 2820s, got %+v", clocks)
	}
}

// TestPeriodClocks_ExtraTimeAndShootout: extra time periods are measured, the shoot-out is not.
func TestPeriodClocks_ExtraTimeAndShootout(t *testing.T) {
	raw := makeRaw(
		halfEnd(1, 45*60), halfEnd(2, 90*60),
		halfEnd(3, 105*60+60), halfEnd(4, 120*60+90),
		halfEnd(5, 0),
	)
	clocks := BuildPeriodClocks(raw)
	if len(clocks) != 4 {
		t.Fatalf("expected 4 clocks, got %d", len(clocks))
	}
	if clocks[2].NominalLength != 900 || clocks[2].MeasuredLength != 960 || clocks[2].StoppageTime != 60 {
		t.Errorf("period 3: got %+v", clocks[2])
	}
	if clocks[3].MeasuredLength != 990 || clocks[3].StoppageTime != 90 {
		t.Errorf("period 4: got %+v", clocks[3])
	}
}

func TestPeriodClocks_MissingMarkersOmitted(t *testing.T) {
	clocks := BuildPeriodClocks(makeRaw(halfEnd(1, 46*60), dribble(2, 50*60, teamHome, playerA, model.OutcomeComplete)))
	if len(clocks) != 1 || clocks[0].Period != 1 {
		t.Fatalf("expected only period 1, got %+v", clocks)
	}
}

// ---- Playing time tests ----

// TestPlayingTime_FullMatch: unadjusted players play the sum of measured lengths.
func TestPlayingTime_FullMatch(t *testing.T) {
	raw := makeRaw(append(regulation(180, 240),
		dribble(1, 600, teamHome, playerA, model.OutcomeComplete),
		dribble(2, 3000, teamAway, playerB, model.OutcomeIncomplete),
	)...)
	clocks := BuildPeriodClocks(raw)
	rows, anoms := PlayingTime(raw, clocks)

	full := 2880 + 2940
	if got := secondsPlayed(t, rows, playerA); got != full {
		t.Errorf("playerA: want %d, got %d", full, got)
	}
	if got := secondsPlayed(t, rows, playerB); got != full {
		t.Errorf("playerB: want %d, got %d", full, got)
	}
	if len(anoms) != 0 {
		t.Errorf("expected no anomalies, got %+v", anoms)
	}
}

// TestPlayingTime_SubOnAfterFirstHalfStoppage: entering at t in period 2 after a
// 3-minute first-half stoppage misses t+180 seconds.
func TestPlayingTime_SubOnAfterFirstHalfStoppage(t *testing.T) {
	tSub := 60 * 60
	raw := makeRaw(append(regulation(180, 0),
		sub(2, tSub, teamHome, playerA, playerB),
	)...)
	rows, _ := PlayingTime(raw, BuildPeriodClocks(raw))

	full := 2880 + 2700
	if got := secondsPlayed(t, rows, playerB); got != full-(tSub+180) {
		t.Errorf("playerB: want %d, got %d", full-(tSub+180), got)
	}
}

// TestPlayingTime_RedCardFirstHalf: dismissed at t with no stoppage plays exactly t.
func TestPlayingTime_RedCardFirstHalf(t *testing.T) {
	tCard := 20*60 + 17
	raw := makeRaw(append(regulation(0, 0),
		redCard(1, tCard, teamAway, playerC),
	)...)
	rows, anoms := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerC); got != tCard {
		t.Errorf("playerC: want %d, got %d", tCard, got)
	}
	if len(anoms) != 0 {
		t.Errorf("expected no anomalies, got %+v", anoms)
	}
}

// TestPlayingTime_SecondYellowBadBehaviour: bad-behaviour second yellows dismiss too;
// plain yellows do not.
func TestPlayingTime_SecondYellowBadBehaviour(t *testing.T) {
	second := at(model.EventBadBehaviour, 2, 80*60, teamAway, playerC)
	second.Card = model.CardSecondYellow
	yellow := at(model.EventFoulCommitted, 1, 10*60, teamAway, playerD)
	yellow.Card = "Yellow Card"

	raw := makeRaw(append(regulation(0, 0), second, yellow)...)
	rows, _ := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerC); got != 80*60 {
		t.Errorf("playerC: want 4800, got %d", got)
	}
	if got := secondsPlayed(t, rows, playerD); got != 5400 {
		t.Errorf("playerD (yellow only): want 5400, got %d", got)
	}
}

// TestPlayingTime_SubOffChargesStoppageFromPeriod: the outgoing player is charged
// full-t, less earlier stoppage, plus stoppage of periods p..3.
func TestPlayingTime_SubOffChargesStoppageFromPeriod(t *testing.T) {
	tSub := 60 * 60
	raw := makeRaw(append(regulation(180, 120),
		sub(2, tSub, teamHome, playerA, playerB),
	)...)
	rows, _ := PlayingTime(raw, BuildPeriodClocks(raw))

	full := 2880 + 2820
	missed := full - tSub - 180 + 120
	if got := secondsPlayed(t, rows, playerA); got != full-missed {
		t.Errorf("playerA: want %d, got %d", full-missed, got)
	}
}

// TestPlayingTime_FourthPeriodStoppageNotCharged: period 4 stoppage never counts
// against a player leaving in extra time.
func TestPlayingTime_FourthPeriodStoppageNotCharged(t *testing.T) {
	tSub := 110 * 60
	raw := makeRaw(
		halfEnd(1, 45*60), halfEnd(2, 90*60),
		halfEnd(3, 105*60), halfEnd(4, 120*60+200),
		sub(4, tSub, teamHome, playerA, playerB),
	)
	rows, _ := PlayingTime(raw, BuildPeriodClocks(raw))

	full := 2700 + 2700 + 900 + 1100
	if got := secondsPlayed(t, rows, playerA); got != tSub {
		t.Errorf("playerA: want %d, got %d", tSub, got)
	}
	if got := secondsPlayed(t, rows, playerB); got != full-tSub {
		t.Errorf("playerB: want %d, got %d", full-tSub, got)
	}
}

// TestPlayingTime_SubbedOnThenOff: both adjustments apply to the same player.
func TestPlayingTime_SubbedOnThenOff(t *testing.T) {
	raw := makeRaw(append(regulation(0, 0),
		sub(1, 30*60, teamHome, playerA, playerB),
		sub(2, 75*60, teamHome, playerB, playerC),
	)...)
	rows, anoms := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerB); got != 45*60 {
		t.Errorf("playerB: want 2700, got %d", got)
	}
	if len(anoms) != 0 {
		t.Errorf("expected no anomalies, got %+v", anoms)
	}
}

// TestPlayingTime_ReplacementWithoutEvents: an incoming player who never touches
// the ball still gets a row.
func TestPlayingTime_ReplacementWithoutEvents(t *testing.T) {
	raw := makeRaw(append(regulation(0, 0),
		sub(2, 88*60, teamHome, playerA, playerD),
	)...)
	rows, _ := PlayingTime(raw, BuildPeriodClocks(raw))
	if got := secondsPlayed(t, rows, playerD); got != 120 {
		t.Errorf("playerD: want 120, got %d", got)
	}
}

// TestPlayingTime_SubOffAndDismissal: both subtractions apply and are flagged.
func TestPlayingTime_SubOffAndDismissal(t *testing.T) {
	raw := makeRaw(append(regulation(0, 0),
		sub(2, 60*60, teamHome, playerA, playerB),
		redCard(2, 70*60, teamHome, playerA),
	)...)
	rows, anoms := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerA); got != 5400-1800-1200 {
		t.Errorf("playerA: want 2400, got %d", got)
	}
	if !hasAnomaly(anoms, playerA, model.AnomalySubOffAndDismissal) {
		t.Errorf("expected sub_off_and_dismissal anomaly, got %+v", anoms)
	}
}

// TestPlayingTime_ClampedAtZero: a double adjustment that goes negative is clamped and flagged.
func TestPlayingTime_ClampedAtZero(t *testing.T) {
	raw := makeRaw(append(regulation(0, 0),
		sub(1, 10*60, teamHome, playerA, playerB),
		redCard(1, 5*60, teamHome, playerA),
	)...)
	rows, anoms := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerA); got != 0 {
		t.Errorf("playerA: want 0, got %d", got)
	}
	if !hasAnomaly(anoms, playerA, model.AnomalyClamped) {
		t.Errorf("expected clamped anomaly, got %+v", anoms)
	}
}

// TestPlayingTime_DuplicateSubOn: only the first substitution is applied.
func TestPlayingTime_DuplicateSubOn(t *testing.T) {
	raw := makeRaw(append(regulation(0, 0),
		sub(2, 70*60, teamHome, playerC, playerB),
		sub(2, 60*60, teamHome, playerA, playerB),
	)...)
	rows, anoms := PlayingTime(raw, BuildPeriodClocks(raw))

	if got := secondsPlayed(t, rows, playerB); got != 1800 {
		t.Errorf("playerB: want 1800 (earliest sub applied once), got %d", got)
	}
	if !hasAnomaly(anoms, playerB, model.AnomalyDuplicateSubOn) {
		t.Errorf("expected duplicate_sub_on anomaly, got %+v", anoms)
	}
}

// TestPlayingTime_NoHalfEndMarkers: missing period data degrades to zero-length matches.
func TestPlayingTime_NoHalfEndMarkers(t *testing.T) {
	raw := makeRaw(
		dribble(1, 100, teamHome, playerA, model.OutcomeComplete),
		sub(2, 60*60, teamHome, playerA, playerB),
	)
	clocks := BuildPeriodClocks(raw)
	if len(clocks) != 0 {
		t.Fatalf("expected no clocks, got %+v", clocks)
	}
	rows, _ := PlayingTime(raw, clocks)
	for _, r := range rows {
		if r.SecondsPlayed != 0 {
			t.Errorf("player %d: want 0, got %d", r.PlayerID, r.SecondsPlayed)
		}
	}
}

func TestPlayingTime_EmptyMatch(t *testing.T) {
	rows, anoms := PlayingTime(makeRaw(), nil)
	if len(rows) != 0 || len(anoms) != 0 {
		t.Errorf("expected empty result, got %v %v", rows, anoms)
	}
}

// ---- Danger dribble tests ----

func findDribble(t *testing.T, rows []model.DribbleRecord, player int64) model.DribbleRecord {
	t.Helper()
	for _, r := range rows {
		if r.PlayerID == player {
			return r
		}
	}
	t.Fatalf("no dribble for player %d", player)
	return model.DribbleRecord{}
}

func TestDangerDribble_ShotWithinWindow(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1010, teamHome, playerB, 0.3, "Saved"),
	)
	d := findDribble(t, DangerDribbles(raw, 15), playerA)
	if !d.IsDanger || d.XGFromDribble != 0.3 || d.LeadsToGoal {
		t.Errorf("expected danger dribble with xG 0.3 and no goal, got %+v", d)
	}
}

func TestDangerDribble_ShotJustOutsideWindow(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1016, teamHome, playerB, 0.3, "Saved"),
	)
	d := findDribble(t, DangerDribbles(raw, 15), playerA)
	if d.IsDanger || d.XGFromDribble != 0 {
		t.Errorf("expected no danger at 16s, got %+v", d)
	}
}

func TestDangerDribble_ShotExactlyAtWindow(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1015, teamHome, playerA, 0.12, model.OutcomeGoal),
	)
	d := findDribble(t, DangerDribbles(raw, 15), playerA)
	if !d.IsDanger || !d.LeadsToGoal {
		t.Errorf("expected danger dribble leading to goal at exactly 15s, got %+v", d)
	}
}

func TestDangerDribble_ShotBeforeDribbleOrOtherTeam(t *testing.T) {
	raw := makeRaw(
		shot(1, 995, teamHome, playerB, 0.4, "Off T"),
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1005, teamAway, playerC, 0.2, model.OutcomeGoal),
	)
	d := findDribble(t, DangerDribbles(raw, 15), playerA)
	if d.IsDanger {
		t.Errorf("earlier or opposing shots must not match, got %+v", d)
	}
}

// TestDangerDribble_WindowClampedAtPeriodStart: the shot window never reaches
// back before the period's start.
func TestDangerDribble_WindowClampedAtPeriodStart(t *testing.T) {
	raw := makeRaw(
		dribble(2, 10, teamHome, playerA, model.OutcomeComplete),
		dribble(2, 2692, teamHome, playerB, model.OutcomeComplete),
		shot(2, 2705, teamHome, playerC, 0.25, "Saved"),
	)
	rows := DangerDribbles(raw, 15)
	if d := findDribble(t, rows, playerA); d.IsDanger {
		t.Errorf("dribble at 10s must not match a shot at 2705s, got %+v", d)
	}
	if d := findDribble(t, rows, playerB); d.IsDanger {
		t.Errorf("naive window 2690 must be clamped to 2700, got %+v", d)
	}
}

// TestDangerDribble_NoCrossPeriodMatch: a stoppage-time dribble in period 1 does
// not link to an early period 2 shot.
func TestDangerDribble_NoCrossPeriodMatch(t *testing.T) {
	raw := makeRaw(
		dribble(1, 47*60+55, teamHome, playerA, model.OutcomeComplete),
		shot(2, 45*60+5, teamHome, playerB, 0.5, model.OutcomeGoal),
	)
	if d := findDribble(t, DangerDribbles(raw, 15), playerA); d.IsDanger {
		t.Errorf("cross-period match detected: %+v", d)
	}
}

func TestDangerDribble_IncompleteNeverDanger(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeIncomplete),
		shot(1, 1003, teamHome, playerA, 0.6, model.OutcomeGoal),
	)
	rows := DangerDribbles(raw, 15)
	if len(rows) != 1 {
		t.Fatalf("incomplete dribble must still be emitted, got %d rows", len(rows))
	}
	if rows[0].IsDanger || rows[0].XGFromDribble != 0 || rows[0].LeadsToGoal {
		t.Errorf("incomplete dribble must not be evaluated, got %+v", rows[0])
	}
}

// TestDangerDribble_FirstShotWins: the earliest qualifying shot supplies xG and outcome.
func TestDangerDribble_FirstShotWins(t *testing.T) {
	raw := makeRaw(
		shot(1, 1012, teamHome, playerB, 0.5, model.OutcomeGoal),
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1005, teamHome, playerA, 0.1, "Blocked"),
	)
	d := findDribble(t, DangerDribbles(raw, 15), playerA)
	if !d.IsDanger || d.XGFromDribble != 0.1 || d.LeadsToGoal {
		t.Errorf("expected first shot (xG 0.1, no goal), got %+v", d)
	}
}

// TestDangerDribble_IdenticalShotTimes: which of two same-second shots is picked
// is not meaningful; the choice is only required to be deterministic. It
// currently falls back to the lower event id.
func TestDangerDribble_IdenticalShotTimes(t *testing.T) {
	s1 := shot(1, 1008, teamHome, playerB, 0.7, model.OutcomeGoal)
	s1.ID = "b-shot"
	s2 := shot(1, 1008, teamHome, playerC, 0.2, "Saved")
	s2.ID = "a-shot"
	raw := makeRaw(dribble(1, 1000, teamHome, playerA, model.OutcomeComplete), s1, s2)

	first := findDribble(t, DangerDribbles(raw, 15), playerA)
	for i := 0; i < 5; i++ {
		again := findDribble(t, DangerDribbles(raw, 15), playerA)
		if again != first {
			t.Fatalf("tie-break not deterministic: %+v vs %+v", first, again)
		}
	}
	if first.XGFromDribble != 0.2 {
		t.Errorf("expected lower event id to win the tie, got xG %v", first.XGFromDribble)
	}
}

// TestDangerDribble_ShotSharedByTwoDribbles: one shot can be credited to several dribbles.
func TestDangerDribble_ShotSharedByTwoDribbles(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		dribble(1, 1004, teamHome, playerB, model.OutcomeComplete),
		shot(1, 1010, teamHome, playerC, 0.33, "Saved"),
	)
	rows := DangerDribbles(raw, 15)
	for _, id := range []int64{playerA, playerB} {
		d := findDribble(t, rows, id)
		if !d.IsDanger || d.XGFromDribble != 0.33 {
			t.Errorf("player %d: expected shared shot xG 0.33, got %+v", id, d)
		}
	}
}

func TestDangerDribble_PeriodWithoutShotsStillEmitted(t *testing.T) {
	raw := makeRaw(
		dribble(1, 300, teamHome, playerA, model.OutcomeComplete),
		dribble(2, 3000, teamAway, playerB, model.OutcomeIncomplete),
		shot(2, 3005, teamAway, playerB, 0.1, "Saved"),
	)
	rows := DangerDribbles(raw, 15)
	if len(rows) != 2 {
		t.Fatalf("expected 2 dribble rows, got %d", len(rows))
	}
	if rows[0].Period != 1 || rows[0].IsDanger {
		t.Errorf("period 1 dribble: got %+v", rows[0])
	}
}

func TestDangerDribble_CustomWindow(t *testing.T) {
	raw := makeRaw(
		dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
		shot(1, 1008, teamHome, playerB, 0.3, "Saved"),
	)
	if d := findDribble(t, DangerDribbles(raw, 5), playerA); d.IsDanger {
		t.Errorf("5s window must not reach an 8s shot, got %+v", d)
	}
}

// ---- Counting stats ----

func TestCountingStats(t *testing.T) {
	goal := shot(1, 600, teamHome, playerA, 0.4, model.OutcomeGoal)
	goal.PlayerName = "Lamine Yamal"
	goal.PositionID = 21
	shootout := shot(model.PenaltyShootoutPeriod, 0, teamHome, playerA, 0.78, model.OutcomeGoal)
	assist := at(model.EventPass, 1, 595, teamHome, playerB)
	assist.PassGoalAssist = true
	assist.PositionID = 17

	stats, positions := CountingStats(makeRaw(goal, shootout, assist, shot(2, 3000, teamHome, playerA, 0.1, "Saved")))

	if len(stats) != 2 {
		t.Fatalf("expected 2 players, got %d", len(stats))
	}
	a := stats[0]
	if a.PlayerID != playerA || a.Goals != 1 || a.Shots != 2 || a.Name != "Lamine Yamal" {
		t.Errorf("playerA: got %+v", a)
	}
	if a.ShotsXG < 0.4999 || a.ShotsXG > 0.5001 {
		t.Errorf("playerA xG: want 0.5, got %v", a.ShotsXG)
	}
	if stats[1].Assists != 1 {
		t.Errorf("playerB assists: want 1, got %d", stats[1].Assists)
	}
	if len(positions) != 2 || positions[0].PositionID != 21 || positions[0].Events != 1 {
		t.Errorf("positions: got %+v", positions)
	}
}

// ---- Aggregate ----

func TestAggregate_Idempotent(t *testing.T) {
	build := func() *model.RawMatch {
		return makeRaw(append(regulation(150, 300),
			sub(2, 70*60, teamHome, playerA, playerB),
			dribble(1, 1000, teamHome, playerA, model.OutcomeComplete),
			shot(1, 1010, teamHome, playerC, 0.3, model.OutcomeGoal),
			redCard(2, 85*60, teamAway, playerD),
		)...)
	}
	first, err := Aggregate(context.Background(), build())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := Aggregate(context.Background(), build())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Aggregate is not deterministic across runs")
	}
	if first.FullGameTime() != 2850+3000 {
		t.Errorf("full game time: want 5850, got %d", first.FullGameTime())
	}
	if len(first.Dribbles) != 1 || !first.Dribbles[0].LeadsToGoal {
		t.Errorf("dribbles: got %+v", first.Dribbles)
	}
}

func TestAggregate_NilMatch(t *testing.T) {
	if _, err := Aggregate(context.Background(), nil); err == nil {
		t.Error("expected error for nil RawMatch")
	}
}
