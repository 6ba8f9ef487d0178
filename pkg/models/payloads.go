package models

// Wire payloads for push events. Shapes follow the server protocol;
// every payload carries the match id so consumers can filter by key.

// ScoreUpdatePayload replaces both scores atomically (last writer wins)
type ScoreUpdatePayload struct {
	MatchID   string `json:"matchId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Minute    int    `json:"minute"`
}

// StatusChangePayload replaces status and resynchronizes the minute
type StatusChangePayload struct {
	MatchID string      `json:"matchId"`
	Status  MatchStatus `json:"status"`
	Minute  int         `json:"minute"`
}

// MatchEventPayload is a timeline event addressed to one match
type MatchEventPayload struct {
	MatchID string `json:"matchId"`
	MatchEvent
}

// StatsUpdatePayload replaces the statistics snapshot wholesale
type StatsUpdatePayload struct {
	MatchID    string          `json:"matchId"`
	Statistics MatchStatistics `json:"statistics"`
}

// SubscribeMatchPayload is the client-to-server subscription command,
// shared by subscribe_match and unsubscribe_match
type SubscribeMatchPayload struct {
	MatchID string `json:"matchId"`
}

// JoinChatPayload is the client-to-server join_chat command
type JoinChatPayload struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// LeaveChatPayload is the client-to-server leave_chat command
type LeaveChatPayload struct {
	MatchID string `json:"matchId"`
	UserID  string `json:"userId"`
}

// SendMessagePayload is the client-to-server send_message command
type SendMessagePayload struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// TypingPayload is shared by typing_start and typing_stop
type TypingPayload struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
}

// UserPresencePayload is shared by user_joined and user_left
type UserPresencePayload struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TypingIndicatorPayload is the server-to-client typing signal
type TypingIndicatorPayload struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
