package utils

import (
	"fmt"
	"time"
)

// FormatTimestamp formats time for TUI display
func FormatTimestamp(t time.Time) string {
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04")
	}
	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon 15:04")
	}
	return t.Format("2006-01-02")
}

// TimeAgo returns a human-readable relative time string
func TimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < 10*time.Second {
		return "just now"
	}
	if duration < time.Minute {
		return fmt.Sprintf("%ds ago", int(duration.Seconds()))
	}
	if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
}

// FormatMatchTime formats a scheduled kickoff for display
func FormatMatchTime(t time.Time) string {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	timeStr := t.Format("3:04 PM")
	switch {
	case sameDay(t, now):
		return "Today · " + timeStr
	case sameDay(t, tomorrow):
		return "Tomorrow · " + timeStr
	default:
		return t.Format("Jan 2") + " · " + timeStr
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
