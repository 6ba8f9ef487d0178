package socket

import (
	"encoding/json"
	"time"
)

// State represents the connection lifecycle state
type State string

const (
	StateDisconnected State = "disconnected"
	StateReconnecting State = "reconnecting"
	StateConnected    State = "connected"
)

// Status is the externally visible connection status. Attempt counts
// retries since the last successful connection and resets to 0 on success.
type Status struct {
	State           State
	Attempt         int
	LastConnectedAt time.Time
}

// Handler receives the raw JSON body of one inbound event. Handlers for
// the same event run in registration order on the read-loop goroutine,
// so they must not block.
type Handler func(data json.RawMessage)

// StatusHandler receives connection status transitions
type StatusHandler func(status Status)

// Subscription is the token returned by Subscribe/SubscribeStatus;
// passing it back to Unsubscribe guarantees symmetric cleanup. Status
// subscriptions carry an empty Event.
type Subscription struct {
	ID    uint64
	Event string
}

// Bus is the transport surface consumers depend on. The concrete
// Manager is the only implementation outside of tests.
type Bus interface {
	// Connected reports whether the transport is currently usable
	Connected() bool

	// Status returns the current connection status synchronously
	Status() Status

	// Emit sends a command if and only if the transport is connected.
	// Otherwise the command is silently dropped and Emit returns false;
	// callers re-issue state-establishing commands after reconnection.
	Emit(event string, payload any) bool

	// Subscribe registers a handler for a named inbound event
	Subscribe(event string, fn Handler) Subscription

	// SubscribeStatus registers a handler for status transitions
	SubscribeStatus(fn StatusHandler) Subscription

	// Unsubscribe deregisters a handler; unknown tokens are a no-op
	Unsubscribe(sub Subscription)
}
