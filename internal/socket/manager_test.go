package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsServer is a minimal push server for exercising the Manager
type wsServer struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conns   []*websocket.Conn
	inbound chan []byte
	dials   int32
}

func newWSServer(t *testing.T) *wsServer {
	s := &wsServer{t: t, inbound: make(chan []byte, 64)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&s.dials, 1)
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go func() {
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				s.inbound <- data
			}
		}()
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *wsServer) dialCount() int {
	return int(atomic.LoadInt32(&s.dials))
}

// push sends one frame on the most recent connection
func (s *wsServer) push(event string, payload any) {
	data, err := json.Marshal(payload)
	require.NoError(s.t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(s.t, s.conns)
	conn := s.conns[len(s.conns)-1]
	require.NoError(s.t, conn.WriteJSON(frame{Event: event, Data: data}))
}

func (s *wsServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

func testConfig(url string) Config {
	return Config{
		URL:            url,
		DialTimeout:    time.Second,
		WriteWait:      time.Second,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEmitWhileDisconnectedIsDropped(t *testing.T) {
	m := NewManager(testConfig("ws://127.0.0.1:0"), quietLogger())
	assert.False(t, m.Emit(EventSendMessage, map[string]string{"x": "y"}))
	assert.Equal(t, StateDisconnected, m.Status().State)
}

func TestConnectDeliversEventsInRegistrationOrder(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	var mu sync.Mutex
	var got []string
	m.Subscribe("score_update", func(data json.RawMessage) {
		mu.Lock()
		got = append(got, "first")
		mu.Unlock()
	})
	m.Subscribe("score_update", func(data json.RawMessage) {
		mu.Lock()
		got = append(got, "second")
		mu.Unlock()
	})

	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	srv.push("score_update", map[string]any{"matchId": "m1"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestConnectIsIdempotent(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	m.Connect()
	m.Connect()
	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, srv.dialCount())
}

func TestEmitWritesFrame(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	require.True(t, m.Emit(EventJoinChat, map[string]string{"matchId": "m1"}))

	select {
	case data := <-srv.inbound:
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		assert.Equal(t, EventJoinChat, f.Event)
		assert.JSONEq(t, `{"matchId":"m1"}`, string(f.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the frame")
	}
}

func TestReconnectAfterDrop(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	var mu sync.Mutex
	var states []State
	var sawAttempt bool
	m.SubscribeStatus(func(s Status) {
		mu.Lock()
		states = append(states, s.State)
		if s.State == StateReconnecting && s.Attempt >= 1 {
			sawAttempt = true
		}
		mu.Unlock()
	})

	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	srv.dropAll()

	require.Eventually(t, func() bool {
		return m.Connected() && srv.dialCount() >= 2
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, m.Status().Attempt, "attempt count resets on success")

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, StateDisconnected)
	assert.Contains(t, states, StateReconnecting)
	assert.True(t, sawAttempt, "reconnecting status should expose attempt count")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	var calls atomic.Int32
	sub := m.Subscribe("stats_update", func(json.RawMessage) { calls.Add(1) })

	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	srv.push("stats_update", map[string]string{"matchId": "m1"})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	m.Unsubscribe(sub)
	srv.push("stats_update", map[string]string{"matchId": "m1"})
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBackoffDelayBounds(t *testing.T) {
	initial := time.Second
	max := 30 * time.Second

	cases := []struct {
		attempt int
		base    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			d := backoffDelay(initial, max, tc.attempt)
			assert.GreaterOrEqual(t, d, tc.base/2, "attempt %d", tc.attempt)
			assert.LessOrEqual(t, d, tc.base*3/2, "attempt %d", tc.attempt)
		}
	}
}

func TestMalformedFrameIsSkipped(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(testConfig(srv.url()), quietLogger())
	defer m.Close()

	var calls atomic.Int32
	m.Subscribe("chat_message", func(json.RawMessage) { calls.Add(1) })

	m.Connect()
	require.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	srv.mu.Lock()
	conn := srv.conns[len(srv.conns)-1]
	srv.mu.Unlock()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	srv.push("chat_message", map[string]string{"matchId": "m1"})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
