package socket

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Config controls dialing and reconnection behavior
type Config struct {
	URL            string
	DialTimeout    time.Duration
	WriteWait      time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns the production reconnection policy:
// retry forever, 1s initial delay doubling toward a 30s ceiling,
// +-50% jitter to avoid thundering-herd reconnects.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		DialTimeout:    10 * time.Second,
		WriteWait:      10 * time.Second,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// frame is the wire envelope: one JSON object per websocket message
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type eventSub struct {
	id uint64
	fn Handler
}

type statusSub struct {
	id uint64
	fn StatusHandler
}

// Manager owns the single websocket connection for the process. It is
// constructed once by the composition root and passed by reference to
// every consumer; no consumer may close or reconfigure the transport.
type Manager struct {
	cfg Config
	log *logrus.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	status  Status
	started bool

	writeMu sync.Mutex

	subsMu     sync.RWMutex
	nextSubID  uint64
	subs       map[string][]eventSub
	statusSubs []statusSub

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a disconnected Manager. Call Connect to start the
// dial loop; the Manager never gives up reconnecting until Close.
func NewManager(cfg Config, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Manager{
		cfg:    cfg,
		log:    log,
		status: Status{State: StateDisconnected},
		subs:   make(map[string][]eventSub),
		done:   make(chan struct{}),
	}
}

// Connect starts the connection loop. Idempotent: calling it while
// already connected or connecting is a no-op.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go m.run()
}

// Close tears down the transport permanently. Only the composition
// root calls this, on process shutdown.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		if m.conn != nil {
			m.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			m.conn.Close()
			m.conn = nil
		}
		m.mu.Unlock()
		m.setStatus(Status{State: StateDisconnected})
	})
}

// Connected implements Bus
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.State == StateConnected
}

// Status implements Bus
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Emit implements Bus. Commands issued while disconnected are dropped,
// not queued.
func (m *Manager) Emit(event string, payload any) bool {
	m.mu.Lock()
	conn := m.conn
	connected := m.status.State == StateConnected
	m.mu.Unlock()

	if !connected || conn == nil {
		m.log.Debugf("socket: dropped %s, not connected", event)
		return false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		m.log.Errorf("socket: marshal %s: %v", event, err)
		return false
	}
	buf, err := json.Marshal(frame{Event: event, Data: data})
	if err != nil {
		m.log.Errorf("socket: marshal frame %s: %v", event, err)
		return false
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
		// The read loop notices the broken connection and reconnects.
		m.log.Warnf("socket: write %s: %v", event, err)
		return false
	}
	return true
}

// Subscribe implements Bus
func (m *Manager) Subscribe(event string, fn Handler) Subscription {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.nextSubID++
	m.subs[event] = append(m.subs[event], eventSub{id: m.nextSubID, fn: fn})
	return Subscription{ID: m.nextSubID, Event: event}
}

// SubscribeStatus implements Bus
func (m *Manager) SubscribeStatus(fn StatusHandler) Subscription {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.nextSubID++
	m.statusSubs = append(m.statusSubs, statusSub{id: m.nextSubID, fn: fn})
	return Subscription{ID: m.nextSubID}
}

// Unsubscribe implements Bus
func (m *Manager) Unsubscribe(sub Subscription) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	if sub.Event == "" {
		for i, s := range m.statusSubs {
			if s.id == sub.ID {
				m.statusSubs = append(m.statusSubs[:i], m.statusSubs[i+1:]...)
				return
			}
		}
		return
	}
	handlers := m.subs[sub.Event]
	for i, s := range handlers {
		if s.id == sub.ID {
			m.subs[sub.Event] = append(handlers[:i], handlers[i+1:]...)
			return
		}
	}
}

// run dials, reads until failure, and retries forever with backoff.
// There is no terminal failure state.
func (m *Manager) run() {
	attempt := 0
	for {
		select {
		case <-m.done:
			return
		default:
		}

		if attempt > 0 {
			m.setStatus(Status{State: StateReconnecting, Attempt: attempt,
				LastConnectedAt: m.Status().LastConnectedAt})
			delay := backoffDelay(m.cfg.InitialBackoff, m.cfg.MaxBackoff, attempt)
			m.log.Infof("socket: reconnecting in %v (attempt %d)", delay, attempt)
			select {
			case <-time.After(delay):
			case <-m.done:
				return
			}
		}

		dialer := websocket.Dialer{HandshakeTimeout: m.cfg.DialTimeout}
		conn, resp, err := dialer.Dial(m.cfg.URL, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			m.log.Warnf("socket: dial %s: %v", m.cfg.URL, err)
			attempt++
			continue
		}

		m.mu.Lock()
		m.conn = conn
		m.mu.Unlock()
		attempt = 0
		m.setStatus(Status{State: StateConnected, LastConnectedAt: time.Now()})
		m.log.Infof("socket: connected to %s", m.cfg.URL)

		m.readLoop(conn)

		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()

		select {
		case <-m.done:
			return
		default:
		}
		m.setStatus(Status{State: StateDisconnected,
			LastConnectedAt: m.Status().LastConnectedAt})
		m.log.Warn("socket: connection lost")
		attempt = 1
	}
}

// readLoop decodes frames and dispatches them until the connection
// breaks. Frames arrive in order while connected; there is no ordering
// guarantee across a reconnect.
func (m *Manager) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				m.log.Debugf("socket: read: %v", err)
			}
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			m.log.Warnf("socket: malformed frame: %v", err)
			continue
		}
		m.dispatch(f.Event, f.Data)
	}
}

// dispatch invokes the handlers registered for one event, in
// registration order, on the read-loop goroutine.
func (m *Manager) dispatch(event string, data json.RawMessage) {
	m.subsMu.RLock()
	handlers := make([]eventSub, len(m.subs[event]))
	copy(handlers, m.subs[event])
	m.subsMu.RUnlock()

	for _, h := range handlers {
		h.fn(data)
	}
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()

	m.subsMu.RLock()
	subs := make([]statusSub, len(m.statusSubs))
	copy(subs, m.statusSubs)
	m.subsMu.RUnlock()

	for _, sub := range subs {
		sub.fn(s)
	}
}

// backoffDelay computes the jittered delay before the given retry
// attempt: the base doubles per attempt up to the ceiling, then +-50%
// jitter is applied, so the result lies in [0.5*base, 1.5*base].
func backoffDelay(initial, max time.Duration, attempt int) time.Duration {
	base := initial
	for i := 1; i < attempt; i++ {
		base *= 2
		if base >= max {
			base = max
			break
		}
	}
	if base > max {
		base = max
	}
	jittered := float64(base) * (0.5 + rand.Float64())
	return time.Duration(jittered)
}
