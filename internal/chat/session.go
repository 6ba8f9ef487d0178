// Package chat implements the per-match chat session: room membership,
// an ordered bounded message log, the debounced typing protocol, and
// rate-limit backoff. Sessions are keyed by match id and independent;
// a user may hold several open at once.
package chat

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"matchcenter/internal/socket"
	"matchcenter/pkg/models"
)

// State is the membership state of a session
type State string

const (
	StateInactive State = "inactive"
	StateJoining  State = "joining"
	StateJoined   State = "joined"
)

// Options tune the session's timers and limits
type Options struct {
	// MaxMessages caps the in-memory log; oldest entries are evicted
	// first once the cap is exceeded.
	MaxMessages int

	// DebounceWindow is the quiet period after a keystroke before
	// typing_start is sent.
	DebounceWindow time.Duration

	// IdleWindow is how long after typing_start the session waits
	// before automatically sending typing_stop.
	IdleWindow time.Duration

	// JoinPollInterval is how often the session checks the transport
	// while waiting to join.
	JoinPollInterval time.Duration

	// RateLimitCooldown is how long sends stay blocked after the
	// server reports a rate limit.
	RateLimitCooldown time.Duration

	// ErrorClearAfter is how long a generic server error stays visible.
	ErrorClearAfter time.Duration

	// SendRate/SendBurst configure the local outbound limiter that
	// pre-empts the server rate limit.
	SendRate  rate.Limit
	SendBurst int
}

// DefaultOptions returns the production tuning
func DefaultOptions() Options {
	return Options{
		MaxMessages:       200,
		DebounceWindow:    400 * time.Millisecond,
		IdleWindow:        3 * time.Second,
		JoinPollInterval:  500 * time.Millisecond,
		RateLimitCooldown: 5 * time.Second,
		ErrorClearAfter:   5 * time.Second,
		SendRate:          rate.Every(time.Second),
		SendBurst:         5,
	}
}

// Session is the chat state machine for one match
type Session struct {
	matchID string
	user    models.User
	bus     socket.Bus
	log     *logrus.Logger
	opts    Options
	limiter *rate.Limiter

	mu          sync.Mutex
	state       State
	joinSent    bool
	messages    []models.ChatMessage
	typingUsers map[string]models.TypingUser
	sending     bool
	rateLimited bool
	errMsg      string
	started     bool
	closed      bool

	typing     typingPhase
	startTimer *time.Timer
	stopTimer  *time.Timer
	rateTimer  *time.Timer
	errTimer   *time.Timer

	subs     []socket.Subscription
	stopPoll chan struct{}
	updates  chan struct{}
}

// NewSession creates an inactive session for one match. The identity
// comes from the preferences store and is never mutated here.
func NewSession(matchID string, user models.User, bus socket.Bus, log *logrus.Logger, opts Options) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = DefaultOptions().MaxMessages
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultOptions().DebounceWindow
	}
	if opts.IdleWindow <= 0 {
		opts.IdleWindow = DefaultOptions().IdleWindow
	}
	if opts.JoinPollInterval <= 0 {
		opts.JoinPollInterval = DefaultOptions().JoinPollInterval
	}
	if opts.RateLimitCooldown <= 0 {
		opts.RateLimitCooldown = DefaultOptions().RateLimitCooldown
	}
	if opts.ErrorClearAfter <= 0 {
		opts.ErrorClearAfter = DefaultOptions().ErrorClearAfter
	}
	if opts.SendRate <= 0 {
		opts.SendRate = DefaultOptions().SendRate
	}
	if opts.SendBurst <= 0 {
		opts.SendBurst = DefaultOptions().SendBurst
	}
	return &Session{
		matchID:     matchID,
		user:        user,
		bus:         bus,
		log:         log,
		opts:        opts,
		limiter:     rate.NewLimiter(opts.SendRate, opts.SendBurst),
		state:       StateInactive,
		typingUsers: make(map[string]models.TypingUser),
		updates:     make(chan struct{}, 1),
	}
}

// Start registers push handlers and begins waiting for the transport.
// The join command is deferred until the transport is connected: the
// session polls connection status and sends join_chat exactly once.
// Idempotent; a missing identity keeps the session inactive.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.user.UserID == "" || s.user.Username == "" {
		s.mu.Unlock()
		return models.ErrUsernameRequired
	}
	s.started = true
	s.state = StateJoining
	s.stopPoll = make(chan struct{})
	// Registered under the lock so a concurrent Close either sees all
	// subscriptions or none.
	s.subs = []socket.Subscription{
		s.bus.Subscribe(socket.EventChatMessage, s.onChatMessage),
		s.bus.Subscribe(socket.EventUserJoined, s.onUserJoined),
		s.bus.Subscribe(socket.EventUserLeft, s.onUserLeft),
		s.bus.Subscribe(socket.EventTypingIndicator, s.onTypingIndicator),
		s.bus.Subscribe(socket.EventError, s.onServerError),
		s.bus.SubscribeStatus(s.onConnStatus),
	}
	s.mu.Unlock()

	go s.pollUntilJoined()
	s.notify()
	return nil
}

// Close tears down the session: any pending typing timers are
// cancelled, an explicit typing_stop is sent if one was due, a leave
// command is sent if a join was, and every handler is deregistered.
// Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	wasTyping := s.stopTypingLocked(false)
	if s.rateTimer != nil {
		s.rateTimer.Stop()
	}
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	joined := s.joinSent
	subs := s.subs
	s.subs = nil
	stopPoll := s.stopPoll
	s.state = StateInactive
	s.mu.Unlock()

	if wasTyping {
		s.emitTypingStop()
	}
	if joined {
		s.bus.Emit(socket.EventLeaveChat, models.LeaveChatPayload{
			MatchID: s.matchID, UserID: s.user.UserID,
		})
	}
	for _, sub := range subs {
		s.bus.Unsubscribe(sub)
	}
	if stopPoll != nil {
		close(stopPoll)
	}
	s.notify()
}

// MatchID returns the room this session is bound to
func (s *Session) MatchID() string {
	return s.matchID
}

// SendMessage validates and sends one chat message. Validation errors,
// an in-flight send, and an active rate limit are all rejected locally
// without any transport interaction. A successful send immediately
// emits typing_stop.
func (s *Session) SendMessage(text string) error {
	trimmed, err := models.ValidateChatMessage(text)
	if err != nil {
		s.setError(err.Error(), 0)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ErrSessionClosed
	}
	if s.sending {
		s.mu.Unlock()
		return models.ErrSendInProgress
	}
	if s.rateLimited {
		s.mu.Unlock()
		return models.ErrRateLimited
	}
	if !s.limiter.Allow() {
		// Local backoff before the server has to tell us off.
		s.rateLimitedLocked(models.ErrRateLimited.Error())
		s.mu.Unlock()
		s.notify()
		return models.ErrRateLimited
	}
	s.sending = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	sent := s.bus.Emit(socket.EventSendMessage, models.SendMessagePayload{
		MatchID:  s.matchID,
		UserID:   s.user.UserID,
		Username: s.user.Username,
		Message:  trimmed,
	})

	s.mu.Lock()
	s.sending = false
	s.stopTypingLocked(true)
	if !sent {
		s.errMsg = "Not connected. Your message was not sent."
	}
	s.mu.Unlock()
	s.emitTypingStop()
	s.notify()

	if !sent {
		return models.ErrNotConnected
	}
	return nil
}

// Messages returns a copy of the ordered log, oldest first
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// TypingUsers returns the active-typing set, sorted by username
func (s *Session) TypingUsers() []models.TypingUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TypingUser, 0, len(s.typingUsers))
	for _, u := range s.typingUsers {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// State returns the membership state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sending reports whether a send is in flight
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// RateLimited reports whether sends are blocked by a cooldown
func (s *Session) RateLimited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateLimited
}

// ErrorMessage returns the current user-visible error, empty if none
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Updates signals coalesced state changes
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// pollUntilJoined waits for a connected transport, then joins once.
// The joinSent flag guards against duplicate joins.
func (s *Session) pollUntilJoined() {
	ticker := time.NewTicker(s.opts.JoinPollInterval)
	defer ticker.Stop()
	for {
		if s.bus.Connected() && s.tryJoin() {
			return
		}
		select {
		case <-ticker.C:
		case <-s.stopPoll:
			return
		}
	}
}

// tryJoin sends join_chat if it has not been sent yet. Returns true
// once the join is out (or the session is gone).
func (s *Session) tryJoin() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return true
	}
	if s.joinSent {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	sent := s.bus.Emit(socket.EventJoinChat, models.JoinChatPayload{
		MatchID:  s.matchID,
		UserID:   s.user.UserID,
		Username: s.user.Username,
	})
	if !sent {
		return false
	}

	s.mu.Lock()
	s.joinSent = true
	s.state = StateJoined
	s.mu.Unlock()
	s.log.Debugf("chat: joined room %s as %s", s.matchID, s.user.Username)
	s.notify()
	return true
}

// onConnStatus re-establishes room membership after a reconnect.
// The initial join is the poller's job; this only re-issues a join
// the server has already seen once.
func (s *Session) onConnStatus(st socket.Status) {
	if st.State != socket.StateConnected {
		return
	}
	s.mu.Lock()
	rejoin := s.joinSent && !s.closed
	s.mu.Unlock()
	if rejoin {
		s.bus.Emit(socket.EventJoinChat, models.JoinChatPayload{
			MatchID:  s.matchID,
			UserID:   s.user.UserID,
			Username: s.user.Username,
		})
	}
}

func (s *Session) onChatMessage(data json.RawMessage) {
	var msg models.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.MatchID != s.matchID {
		return
	}
	s.mu.Lock()
	s.appendLocked(msg)
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Session) onUserJoined(data json.RawMessage) {
	s.presenceNotice(data, "joined the chat")
}

func (s *Session) onUserLeft(data json.RawMessage) {
	s.presenceNotice(data, "left the chat")
}

// presenceNotice synthesizes a system message for another user's
// join/leave. System messages carry the reserved sender id and a
// locally generated timestamp; they never cross the wire.
func (s *Session) presenceNotice(data json.RawMessage, verb string) {
	var p models.UserPresencePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != s.matchID {
		return
	}
	if p.UserID == s.user.UserID {
		return
	}
	s.mu.Lock()
	s.appendLocked(models.ChatMessage{
		MatchID:   s.matchID,
		UserID:    models.SystemUserID,
		Username:  models.SystemUsername,
		Message:   p.Username + " " + verb,
		Timestamp: time.Now(),
	})
	// A leave also ends any typing indicator for that user.
	if verb == "left the chat" {
		delete(s.typingUsers, p.UserID)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) onTypingIndicator(data json.RawMessage) {
	var p models.TypingIndicatorPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != s.matchID {
		return
	}
	if p.UserID == s.user.UserID {
		return
	}
	s.mu.Lock()
	if p.IsTyping {
		// Redundant starts replace rather than duplicate.
		s.typingUsers[p.UserID] = models.TypingUser{UserID: p.UserID, Username: p.Username}
	} else {
		delete(s.typingUsers, p.UserID)
	}
	s.mu.Unlock()
	s.notify()
}

// onServerError distinguishes the rate-limit code from generic errors:
// rate limits block sends for a fixed cooldown, generic errors are
// transient and self-clearing.
func (s *Session) onServerError(data json.RawMessage) {
	var p models.ErrorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	s.mu.Lock()
	if p.Code == models.ErrCodeRateLimit {
		s.rateLimitedLocked("Too many messages. Please wait before sending another.")
	} else {
		msg := p.Message
		if msg == "" {
			msg = "An error occurred"
		}
		s.errMsg = msg
		if s.errTimer != nil {
			s.errTimer.Stop()
		}
		s.errTimer = time.AfterFunc(s.opts.ErrorClearAfter, s.clearError)
	}
	s.mu.Unlock()
	s.notify()
}

// rateLimitedLocked arms the cooldown; both the flag and the error
// clear automatically when it elapses.
func (s *Session) rateLimitedLocked(msg string) {
	s.rateLimited = true
	s.errMsg = msg
	if s.rateTimer != nil {
		s.rateTimer.Stop()
	}
	s.rateTimer = time.AfterFunc(s.opts.RateLimitCooldown, func() {
		s.mu.Lock()
		s.rateLimited = false
		s.errMsg = ""
		s.mu.Unlock()
		s.notify()
	})
}

func (s *Session) clearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setError(msg string, clearAfter time.Duration) {
	s.mu.Lock()
	s.errMsg = msg
	if clearAfter > 0 {
		if s.errTimer != nil {
			s.errTimer.Stop()
		}
		s.errTimer = time.AfterFunc(clearAfter, s.clearError)
	}
	s.mu.Unlock()
	s.notify()
}

// appendLocked appends one entry and evicts from the front once the
// cap is exceeded, bounding memory for long-running sessions.
func (s *Session) appendLocked(msg models.ChatMessage) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > s.opts.MaxMessages {
		s.messages = s.messages[len(s.messages)-s.opts.MaxMessages:]
	}
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
