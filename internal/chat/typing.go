package chat

import (
	"strings"
	"time"

	"matchcenter/internal/socket"
	"matchcenter/pkg/models"
)

// typingPhase tracks the outbound typing state machine. The idle
// window is always armed while active, so the pending-stop stage is
// folded into typingActive.
type typingPhase int

const (
	typingIdle typingPhase = iota
	typingPendingStart
	typingActive
)

// InputChanged drives the debounced typing protocol. Non-empty input
// (re)arms the debounce timer; typing_start goes out at most once per
// burst after the quiet period, and typing_stop follows automatically
// once the user stays idle. Clearing the input stops immediately,
// bypassing the debounce window.
func (s *Session) InputChanged(text string) {
	s.mu.Lock()
	if s.closed || !s.started {
		s.mu.Unlock()
		return
	}

	if strings.TrimSpace(text) == "" {
		stopDue := s.stopTypingLocked(false)
		s.mu.Unlock()
		if stopDue {
			s.emitTypingStop()
		}
		return
	}

	switch s.typing {
	case typingIdle:
		s.typing = typingPendingStart
		s.armStartTimerLocked()
	case typingPendingStart:
		s.armStartTimerLocked()
	case typingActive:
		// Start already sent this burst; keystrokes just extend the
		// idle window.
		s.armStopTimerLocked()
	}
	s.mu.Unlock()
}

func (s *Session) armStartTimerLocked() {
	if s.startTimer != nil {
		s.startTimer.Stop()
	}
	s.startTimer = time.AfterFunc(s.opts.DebounceWindow, s.typingStartElapsed)
}

func (s *Session) armStopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer.Stop()
	}
	s.stopTimer = time.AfterFunc(s.opts.IdleWindow, s.typingIdleElapsed)
}

// typingStartElapsed fires after the debounce window with no further
// input: send typing_start exactly once and arm the idle window.
func (s *Session) typingStartElapsed() {
	s.mu.Lock()
	if s.closed || s.typing != typingPendingStart {
		s.mu.Unlock()
		return
	}
	s.typing = typingActive
	s.armStopTimerLocked()
	s.mu.Unlock()

	s.bus.Emit(socket.EventTypingStart, models.TypingPayload{
		MatchID:  s.matchID,
		UserID:   s.user.UserID,
		Username: s.user.Username,
	})
}

// typingIdleElapsed fires when the user stayed idle after typing_start
func (s *Session) typingIdleElapsed() {
	s.mu.Lock()
	if s.closed || s.typing != typingActive {
		s.mu.Unlock()
		return
	}
	s.typing = typingIdle
	s.mu.Unlock()

	s.emitTypingStop()
}

// stopTypingLocked cancels both timers and resets to idle. It reports
// whether typing_stop is due: when a burst was in progress, or
// unconditionally when force is set (a sent message always announces
// typing_stop). The caller emits after unlocking; a slow transport
// write must not stall the session mutex.
func (s *Session) stopTypingLocked(force bool) bool {
	wasActive := s.typing == typingActive
	s.cancelTypingTimersLocked()
	s.typing = typingIdle
	return force || wasActive
}

func (s *Session) emitTypingStop() {
	s.bus.Emit(socket.EventTypingStop, models.TypingPayload{
		MatchID: s.matchID,
		UserID:  s.user.UserID,
	})
}

func (s *Session) cancelTypingTimersLocked() {
	if s.startTimer != nil {
		s.startTimer.Stop()
		s.startTimer = nil
	}
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}
}
