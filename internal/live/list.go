package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"matchcenter/internal/socket"
	"matchcenter/pkg/models"
)

// ListFetcher is the REST read used for the full match list
type ListFetcher interface {
	FetchMatches(ctx context.Context) ([]models.Match, error)
}

// ListSync maintains the collection of match summaries. Push events
// patch individual entries in place; a polling fallback refetches the
// whole list on a fixed interval to self-heal from missed or malformed
// pushes. A poll refresh always wins: it is a full authoritative
// replace.
type ListSync struct {
	fetcher ListFetcher
	bus     socket.Bus
	log     *logrus.Logger

	mu      sync.Mutex
	matches []models.Match
	err     error
	loading bool
	started bool
	stopped bool

	subs    []socket.Subscription
	stop    chan struct{}
	updates chan struct{}
}

// NewListSync creates a stopped synchronizer
func NewListSync(fetcher ListFetcher, bus socket.Bus, log *logrus.Logger) *ListSync {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ListSync{
		fetcher: fetcher,
		bus:     bus,
		log:     log,
		updates: make(chan struct{}, 1),
	}
}

// Start performs the initial fetch, registers push handlers, and
// starts the poll fallback. Idempotent.
func (s *ListSync) Start(ctx context.Context, pollInterval time.Duration) error {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.loading = true
	s.stop = make(chan struct{})
	s.mu.Unlock()

	err := s.fetch(ctx)

	// Stop may have raced the fetch; register nothing in that case so
	// no handler or poll loop outlives it.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return err
	}

	s.subs = []socket.Subscription{
		s.bus.Subscribe(socket.EventScoreUpdate, s.onScoreUpdate),
		s.bus.Subscribe(socket.EventStatusChange, s.onStatusChange),
		s.bus.SubscribeStatus(s.onConnStatus),
	}

	if pollInterval > 0 {
		go s.poll(pollInterval)
	}
	return err
}

// Stop halts the poll timer and deregisters push handlers. Idempotent.
func (s *ListSync) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.stopped = true
		s.mu.Unlock()
		return
	}
	s.stopped = true
	subs := s.subs
	s.subs = nil
	stop := s.stop
	s.mu.Unlock()

	for _, sub := range subs {
		s.bus.Unsubscribe(sub)
	}
	if stop != nil {
		close(stop)
	}
}

// Refetch re-reads the full list on demand
func (s *ListSync) Refetch(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	return s.fetch(ctx)
}

// Matches returns a copy of the current summaries
func (s *ListSync) Matches() []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Err returns the current fetch error, if any
func (s *ListSync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether a fetch is in flight
func (s *ListSync) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Updates signals coalesced state changes; receivers re-read Matches
func (s *ListSync) Updates() <-chan struct{} {
	return s.updates
}

func (s *ListSync) fetch(ctx context.Context) error {
	matches, err := s.fetcher.FetchMatches(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.err = nil
	s.matches = matches
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *ListSync) poll(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.fetch(ctx); err != nil {
				s.log.Warnf("live: list poll: %v", err)
			}
			cancel()
		case <-s.stop:
			return
		}
	}
}

func (s *ListSync) onScoreUpdate(data json.RawMessage) {
	var p models.ScoreUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if p.HomeScore < 0 || p.AwayScore < 0 {
		return
	}
	s.mu.Lock()
	patched := false
	for i := range s.matches {
		if s.matches[i].ID == p.MatchID {
			s.matches[i].HomeScore = p.HomeScore
			s.matches[i].AwayScore = p.AwayScore
			if p.Minute >= 0 {
				s.matches[i].Minute = p.Minute
			}
			patched = true
			break
		}
	}
	s.mu.Unlock()
	if patched {
		s.notify()
	}
}

func (s *ListSync) onStatusChange(data json.RawMessage) {
	var p models.StatusChangePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	s.mu.Lock()
	patched := false
	for i := range s.matches {
		if s.matches[i].ID == p.MatchID {
			s.matches[i].Status = p.Status
			if p.Minute >= 0 {
				s.matches[i].Minute = p.Minute
			}
			patched = true
			break
		}
	}
	s.mu.Unlock()
	if patched {
		s.notify()
	}
}

// onConnStatus refetches after a reconnect; pushes missed while the
// connection was down are lost, so the full replace covers the gap
// without waiting for the next poll.
func (s *ListSync) onConnStatus(st socket.Status) {
	if st.State != socket.StateConnected {
		return
	}
	s.mu.Lock()
	active := s.started && !s.stopped
	s.mu.Unlock()
	if !active {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.fetch(ctx); err != nil {
			s.log.Warnf("live: refetch after reconnect: %v", err)
		}
	}()
}

func (s *ListSync) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
