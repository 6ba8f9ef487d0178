package models

import "errors"

// Error codes carried on server error payloads. RATE_LIMIT is the one
// code the engine recognizes and handles differently from generic errors.
const (
	ErrCodeRateLimit = "RATE_LIMIT"
)

// Fetch errors
var (
	ErrMatchNotFound = errors.New("match not found")
)

// Chat validation errors - local, rejected before any transport interaction
var (
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrMessageTooLong   = errors.New("message must be at most 500 characters")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameLength   = errors.New("username must be 2-20 characters")
	ErrUsernameCharset  = errors.New("username can only contain letters, numbers, spaces, and underscores")
)

// Chat flow-control errors
var (
	ErrSendInProgress = errors.New("a message is already being sent")
	ErrRateLimited    = errors.New("too many messages, wait before sending another")
	ErrSessionClosed  = errors.New("chat session is closed")
	ErrNotConnected   = errors.New("not connected")
)

// ErrorPayload is the server-to-client error event body
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
