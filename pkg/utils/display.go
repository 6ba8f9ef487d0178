package utils

import (
	"fmt"

	"matchcenter/pkg/models"
)

// FormatMinute renders the match clock ("45'", "HT", "FT")
func FormatMinute(minute int, status models.MatchStatus) string {
	switch status {
	case models.StatusHalfTime:
		return "HT"
	case models.StatusFullTime:
		return "FT"
	case models.StatusNotStarted:
		return ""
	default:
		return fmt.Sprintf("%d'", minute)
	}
}

// EventIcon returns the timeline marker for an event type
func EventIcon(t models.EventType) string {
	switch t {
	case models.EventGoal:
		return "⚽"
	case models.EventYellowCard:
		return "🟨"
	case models.EventRedCard:
		return "🟥"
	case models.EventSubstitution:
		return "🔄"
	case models.EventFoul:
		return "⚠"
	case models.EventShot:
		return "🎯"
	default:
		return "•"
	}
}

// GroupedMatches buckets summaries for sectioned display
type GroupedMatches struct {
	Live     []models.Match
	Upcoming []models.Match
	Recent   []models.Match
}

// GroupMatches splits a match list by lifecycle state
func GroupMatches(matches []models.Match) GroupedMatches {
	var g GroupedMatches
	for _, m := range matches {
		switch {
		// Half time counts as in progress even though the clock is stopped.
		case m.Status.IsLive(), m.Status == models.StatusHalfTime:
			g.Live = append(g.Live, m)
		case m.Status == models.StatusNotStarted:
			g.Upcoming = append(g.Upcoming, m)
		default:
			g.Recent = append(g.Recent, m)
		}
	}
	return g
}
