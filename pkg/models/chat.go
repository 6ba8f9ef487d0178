package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Chat limits
const (
	MaxChatMessageLength = 500
	MaxUsernameLength    = 20
	MinUsernameLength    = 2
)

// SystemUserID is the reserved sender id for locally synthesized
// join/leave notices. Such messages never cross the wire.
const SystemUserID = "system"

// SystemUsername is the display name used for system messages
const SystemUsername = "System"

// ChatMessage represents one chat log entry
type ChatMessage struct {
	MatchID   string    `json:"matchId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// IsSystem reports whether the message was synthesized locally
func (m ChatMessage) IsSystem() bool {
	return m.UserID == SystemUserID
}

// TypingUser is one entry in the active-typing set
type TypingUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// User is the durable local identity read from the preferences store
type User struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_ ]+$`)

// ValidateUsername checks a display name before it is persisted
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(trimmed) < MinUsernameLength ||
		utf8.RuneCountInString(trimmed) > MaxUsernameLength {
		return ErrUsernameLength
	}
	if !usernamePattern.MatchString(trimmed) {
		return ErrUsernameCharset
	}
	return nil
}

// ValidateChatMessage checks outbound text before any transport round-trip.
// Returns the trimmed text on success.
func ValidateChatMessage(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxChatMessageLength {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}
