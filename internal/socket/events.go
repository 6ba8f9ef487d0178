// Package socket owns the persistent server connection: dialing,
// reconnection with jittered backoff, and fan-out of named push events
// to registered consumers. It has no knowledge of matches or chat.
package socket

// Client-to-server commands
const (
	EventSubscribeMatch   = "subscribe_match"
	EventUnsubscribeMatch = "unsubscribe_match"
	EventJoinChat         = "join_chat"
	EventLeaveChat        = "leave_chat"
	EventSendMessage      = "send_message"
	EventTypingStart      = "typing_start"
	EventTypingStop       = "typing_stop"
)

// Server-to-client push events
const (
	EventScoreUpdate     = "score_update"
	EventStatusChange    = "status_change"
	EventMatchEvent      = "match_event"
	EventStatsUpdate     = "stats_update"
	EventChatMessage     = "chat_message"
	EventUserJoined      = "user_joined"
	EventUserLeft        = "user_left"
	EventTypingIndicator = "typing_indicator"
	EventError           = "error"
)
