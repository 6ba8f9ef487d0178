package models

import "time"

// MatchStatus represents where a fixture is in its lifecycle
type MatchStatus string

const (
	StatusNotStarted MatchStatus = "NOT_STARTED"
	StatusFirstHalf  MatchStatus = "FIRST_HALF"
	StatusHalfTime   MatchStatus = "HALF_TIME"
	StatusSecondHalf MatchStatus = "SECOND_HALF"
	StatusFullTime   MatchStatus = "FULL_TIME"
)

// IsLive reports whether the clock is running for this status
func (s MatchStatus) IsLive() bool {
	return s == StatusFirstHalf || s == StatusSecondHalf
}

// Badge returns the user-facing label for a status
func (s MatchStatus) Badge() string {
	switch s {
	case StatusFirstHalf, StatusSecondHalf:
		return "Live"
	case StatusHalfTime:
		return "Half Time"
	case StatusFullTime:
		return "Full Time"
	case StatusNotStarted:
		return "Not Started"
	default:
		return "Unknown"
	}
}

// EventType represents valid timeline event kinds
type EventType string

const (
	EventGoal         EventType = "GOAL"
	EventYellowCard   EventType = "YELLOW_CARD"
	EventRedCard      EventType = "RED_CARD"
	EventSubstitution EventType = "SUBSTITUTION"
	EventFoul         EventType = "FOUL"
	EventShot         EventType = "SHOT"
)

// TeamSide identifies which side of the fixture an event belongs to
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)

// Team is a lightweight team reference
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// Match is the summary shape used in the match list
type Match struct {
	ID        string      `json:"id"`
	HomeTeam  Team        `json:"homeTeam"`
	AwayTeam  Team        `json:"awayTeam"`
	HomeScore int         `json:"homeScore"`
	AwayScore int         `json:"awayScore"`
	Minute    int         `json:"minute"`
	Status    MatchStatus `json:"status"`
	StartTime time.Time   `json:"startTime"`
}

// MatchEvent is one immutable timeline entry
type MatchEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Minute       int       `json:"minute"`
	Team         TeamSide  `json:"team"`
	Player       string    `json:"player"`
	AssistPlayer string    `json:"assistPlayer,omitempty"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}

// StatPair holds one home/away counter pair
type StatPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchStatistics is a wholesale-replaced statistics snapshot.
// Possession is display-only; home+away is not forced to sum to 100.
type MatchStatistics struct {
	Possession    StatPair `json:"possession"`
	Shots         StatPair `json:"shots"`
	ShotsOnTarget StatPair `json:"shotsOnTarget"`
	Corners       StatPair `json:"corners"`
	Fouls         StatPair `json:"fouls"`
	YellowCards   StatPair `json:"yellowCards"`
	RedCards      StatPair `json:"redCards"`
}

// MatchDetail is a Match plus timeline and statistics.
// Events are kept newest-first.
type MatchDetail struct {
	Match
	Events     []MatchEvent    `json:"events"`
	Statistics MatchStatistics `json:"statistics"`
}

// Clone returns a deep copy safe to hand to callers
func (d *MatchDetail) Clone() *MatchDetail {
	if d == nil {
		return nil
	}
	out := *d
	out.Events = make([]MatchEvent, len(d.Events))
	copy(out.Events, d.Events)
	return &out
}
