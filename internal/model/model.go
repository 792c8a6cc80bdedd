package model

import "time"

// EventType is the feed's action tag for an event.
type EventType string

const (
	EventDribble       EventType = "Dribble"
	EventShot          EventType = "Shot"
	EventSubstitution  EventType = "Substitution"
	EventHalfEnd       EventType = "Half End"
	EventFoulCommitted EventType = "Foul Committed"
	EventBadBehaviour  EventType = "Bad Behaviour"
	EventPass          EventType = "Pass"
)

// Outcome names used by the engines.
const (
	OutcomeComplete   = "Complete"
	OutcomeIncomplete = "Incomplete"
	OutcomeGoal       = "Goal"
)

// Card names that dismiss a player.
const (
	CardRed          = "Red Card"
	CardSecondYellow = "Second Yellow"
)

// PenaltyShootoutPeriod is excluded from every time computation.
const PenaltyShootoutPeriod = 5

// ---- Raw events emitted by the parser ----

// Event is one in-match action. Minute and Second are the match clock as
// emitted by the feed; Timestamp is the period-relative elapsed time when the
// feed provides one.
type Event struct {
	ID      string
	MatchID int64
	Index   int // feed order, only used as a last-resort deterministic tie-break
	Period  int
	Minute  int
	Second  int

	Timestamp    time.Duration
	HasTimestamp bool

	Type    EventType
	Team    string
	Outcome string

	PlayerID   int64 // 0 if the event is not linked to a player
	PlayerName string
	PositionID int // 0 if unknown

	X, Y        float64
	HasLocation bool

	ShotXG         float64 // only on Shot events
	ReplacementID  int64   // only on Substitution events
	Card           string  // Foul Committed / Bad Behaviour card name, empty if none
	PassGoalAssist bool
}

// ClockSeconds returns the match clock of the event in seconds.
func (e Event) ClockSeconds() int {
	return e.Minute*60 + e.Second
}

// IsDismissal reports whether the event sends its player off.
func (e Event) IsDismissal() bool {
	return e.Card == CardRed || e.Card == CardSecondYellow
}

// RawMatch holds every event of one match plus metadata known before aggregation.
type RawMatch struct {
	MatchID     int64
	Competition string
	Season      string
	MatchDate   string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Events      []Event
}

// ---- Engine outputs ----

// PeriodClock describes the measured length of one period of a match.
// All lengths are in seconds.
type PeriodClock struct {
	MatchID        int64
	Period         int
	NominalLength  int
	MeasuredLength int
	StoppageTime   int
}

// PlayerMatchTime is the number of seconds a player spent on the pitch in one match.
type PlayerMatchTime struct {
	MatchID       int64
	PlayerID      int64
	SecondsPlayed int
}

// DribbleRecord is one dribble attempt, annotated by the danger-dribble pass.
type DribbleRecord struct {
	MatchID      int64
	EventID      string
	Period       int
	ClockSeconds int
	Team         string
	PlayerID     int64
	Outcome      string
	X, Y         float64

	IsDanger      bool
	XGFromDribble float64
	LeadsToGoal   bool
}

// AnomalyKind classifies a data-integrity warning raised while computing playing time.
type AnomalyKind string

const (
	// AnomalyDuplicateSubOn: the player is the incoming player of more than one substitution.
	AnomalyDuplicateSubOn AnomalyKind = "duplicate_sub_on"
	// AnomalyDuplicateSubOff: the player is the outgoing player of more than one substitution.
	AnomalyDuplicateSubOff AnomalyKind = "duplicate_sub_off"
	// AnomalyDuplicateDismissal: the player has more than one dismissal card.
	AnomalyDuplicateDismissal AnomalyKind = "duplicate_dismissal"
	// AnomalySubOffAndDismissal: the player was both substituted off and dismissed.
	AnomalySubOffAndDismissal AnomalyKind = "sub_off_and_dismissal"
	// AnomalyClamped: the computed playing time fell outside [0, full game time].
	AnomalyClamped AnomalyKind = "clamped"
)

// Anomaly is a data-integrity warning attached to one player in one match.
type Anomaly struct {
	MatchID  int64
	PlayerID int64
	Kind     AnomalyKind
	Detail   string
}

// PlayerMatchStats holds the simple counting stats of one player in one match.
type PlayerMatchStats struct {
	MatchID  int64
	PlayerID int64
	Name     string
	Team     string

	Goals   int
	Assists int
	Shots   int
	ShotsXG float64
}

// PlayerPosition counts how many events a player logged in one position in one match.
type PlayerPosition struct {
	MatchID    int64
	PlayerID   int64
	PositionID int
	Events     int
}

// MatchResult bundles everything derived from one match.
type MatchResult struct {
	Summary     MatchSummary
	Clocks      []PeriodClock
	PlayingTime []PlayerMatchTime
	Dribbles    []DribbleRecord
	Stats       []PlayerMatchStats
	Positions   []PlayerPosition
	Anomalies   []Anomaly
}

// FullGameTime returns the summed measured length of the match's recorded periods.
func (r *MatchResult) FullGameTime() int {
	total := 0
	for _, c := range r.Clocks {
		total += c.MeasuredLength
	}
	return total
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID     int64
	Competition string
	Season      string
	MatchDate   string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	EventCount  int
	RunID       string
}

// ---- Season aggregates ----

// PlayerSeasonStats holds one player's stats summed across all stored matches.
type PlayerSeasonStats struct {
	PlayerID int64
	Name     string
	Team     string
	Position string
	Matches  int

	PlayingTime int // seconds

	Goals   int
	Assists int
	Shots   int
	ShotsXG float64

	CompletedDribbles int
	FailedDribbles    int
	DangerDribbles    int
	DangerDribblesXG  float64
	DribblesToGoals   int

	// Per90 holds per-90-minute rates keyed by column name. Empty when PlayingTime is 0.
	Per90 map[string]float64
}

// AttemptedDribbles returns completed plus failed dribbles.
func (s *PlayerSeasonStats) AttemptedDribbles() int {
	return s.CompletedDribbles + s.FailedDribbles
}

// DribbleSuccessRate returns completed/attempted dribbles as a fraction.
func (s *PlayerSeasonStats) DribbleSuccessRate() float64 {
	if s.AttemptedDribbles() == 0 {
		return 0
	}
	return float64(s.CompletedDribbles) / float64(s.AttemptedDribbles())
}

// XGPerDangerDribble returns the average xG created per danger dribble.
func (s *PlayerSeasonStats) XGPerDangerDribble() float64 {
	if s.DangerDribbles == 0 {
		return 0
	}
	return s.DangerDribblesXG / float64(s.DangerDribbles)
}

// Minutes returns the playing time in whole minutes.
func (s *PlayerSeasonStats) Minutes() int {
	return s.PlayingTime / 60
}

// IngestRun records one ingest invocation.
type IngestRun struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	CompetitionID int
	SeasonID      int
	ShotWindow    int
	Matches       int // matches aggregated and stored
	Skipped       int // matches already stored
}

// PlayerMatchLine is one player's stored output for one match, joined with the match header.
type PlayerMatchLine struct {
	PlayerID      int64
	Name          string
	Team          string
	MatchID       int64
	MatchDate     string
	HomeTeam      string
	AwayTeam      string
	SecondsPlayed int
	Goals         int
	Assists       int
	Shots         int
	ShotsXG       float64
	Dribbles      int
	Completed     int
	Danger        int
	DangerXG      float64
}
