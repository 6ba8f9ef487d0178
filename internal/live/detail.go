// Package live keeps local match state consistent with the server:
// a per-match detail reducer and a list synchronizer, both patched by
// push events from the socket and healed by REST refetches.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"matchcenter/internal/socket"
	"matchcenter/pkg/models"
)

// DetailFetcher is the REST read used for the initial snapshot
type DetailFetcher interface {
	FetchMatchDetail(ctx context.Context, id string) (*models.MatchDetail, error)
}

// DetailWatcher maintains the authoritative local snapshot for one
// match: initial fetch, push patching, and a cosmetic minute ticker
// that masks push latency during live play. Each watcher exclusively
// owns its snapshot; no two watchers share mutable state.
type DetailWatcher struct {
	matchID string
	fetcher DetailFetcher
	bus     socket.Bus
	log     *logrus.Logger
	tick    time.Duration

	mu      sync.Mutex
	match   *models.MatchDetail
	err     error
	loading bool
	seen    map[string]struct{}
	opened  bool
	closed  bool

	subs       []socket.Subscription
	tickerStop chan struct{}
	updates    chan struct{}
}

// NewDetailWatcher creates a watcher for one match. minuteTick is the
// interval of the local clock compensator; zero means one minute.
func NewDetailWatcher(matchID string, fetcher DetailFetcher, bus socket.Bus, log *logrus.Logger, minuteTick time.Duration) *DetailWatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if minuteTick <= 0 {
		minuteTick = time.Minute
	}
	return &DetailWatcher{
		matchID: matchID,
		fetcher: fetcher,
		bus:     bus,
		log:     log,
		tick:    minuteTick,
		seen:    make(map[string]struct{}),
		updates: make(chan struct{}, 1),
	}
}

// Open fetches the initial snapshot, subscribes to push updates, and
// starts the minute ticker. Idempotent: a second Open is a no-op.
// A not-found match is terminal; any other fetch failure is stored and
// recoverable by Refetch while push updates keep flowing.
func (w *DetailWatcher) Open(ctx context.Context) error {
	w.mu.Lock()
	if w.opened || w.closed {
		w.mu.Unlock()
		return nil
	}
	w.opened = true
	w.loading = true
	w.mu.Unlock()

	err := w.fetch(ctx)
	if errors.Is(err, models.ErrMatchNotFound) {
		// No retry path and nothing to subscribe to.
		return err
	}

	// Close may have raced the fetch. Registering anyway would leak
	// handlers and the ticker with nothing left to tear them down, so
	// the whole startup happens under the lock Close takes.
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return err
	}

	w.bus.Emit(socket.EventSubscribeMatch, models.SubscribeMatchPayload{MatchID: w.matchID})

	w.subs = []socket.Subscription{
		w.bus.Subscribe(socket.EventScoreUpdate, w.onScoreUpdate),
		w.bus.Subscribe(socket.EventStatusChange, w.onStatusChange),
		w.bus.Subscribe(socket.EventMatchEvent, w.onMatchEvent),
		w.bus.Subscribe(socket.EventStatsUpdate, w.onStatsUpdate),
		w.bus.SubscribeStatus(w.onConnStatus),
	}

	w.tickerStop = make(chan struct{})
	go w.runTicker()

	return err
}

// Refetch re-runs the initial REST read. Retry after a generic fetch
// failure is caller-initiated; there is no automatic retry loop.
func (w *DetailWatcher) Refetch(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.loading = true
	w.mu.Unlock()
	return w.fetch(ctx)
}

// Close unsubscribes from the match, deregisters every handler, and
// stops the minute ticker. Idempotent: double-close is a no-op. Must
// be called on every view-exit path so the subscription does not
// outlive interest in the match.
func (w *DetailWatcher) Close() {
	w.mu.Lock()
	if !w.opened || w.closed {
		w.closed = true
		w.mu.Unlock()
		return
	}
	w.closed = true
	subs := w.subs
	w.subs = nil
	tickerStop := w.tickerStop
	w.mu.Unlock()

	w.bus.Emit(socket.EventUnsubscribeMatch, models.SubscribeMatchPayload{MatchID: w.matchID})
	for _, s := range subs {
		w.bus.Unsubscribe(s)
	}
	if tickerStop != nil {
		close(tickerStop)
	}
	w.notify()
}

// MatchID returns the match this watcher is bound to
func (w *DetailWatcher) MatchID() string {
	return w.matchID
}

// Snapshot returns a deep copy of the current match detail, or nil
// before the first successful fetch
func (w *DetailWatcher) Snapshot() *models.MatchDetail {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.match.Clone()
}

// Err returns the current fetch error, if any
func (w *DetailWatcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Loading reports whether a fetch is in flight
func (w *DetailWatcher) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Updates signals coalesced state changes; receivers re-read Snapshot
func (w *DetailWatcher) Updates() <-chan struct{} {
	return w.updates
}

func (w *DetailWatcher) fetch(ctx context.Context) error {
	detail, err := w.fetcher.FetchMatchDetail(ctx, w.matchID)

	w.mu.Lock()
	w.loading = false
	if err != nil {
		w.err = err
		w.mu.Unlock()
		w.notify()
		return err
	}
	w.err = nil
	w.match = detail
	w.seen = make(map[string]struct{}, len(detail.Events))
	for _, ev := range detail.Events {
		w.seen[ev.ID] = struct{}{}
	}
	w.mu.Unlock()
	w.notify()
	return nil
}

// onScoreUpdate replaces both scores atomically, last writer wins by
// arrival order. Out-of-order delivery can transiently overwrite a
// fresher score; there are no sequence numbers to correct it.
func (w *DetailWatcher) onScoreUpdate(data json.RawMessage) {
	var p models.ScoreUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != w.matchID {
		return
	}
	if p.HomeScore < 0 || p.AwayScore < 0 {
		w.log.Warnf("live: ignoring negative score for match %s", w.matchID)
		return
	}
	w.mu.Lock()
	if w.match != nil {
		w.match.HomeScore = p.HomeScore
		w.match.AwayScore = p.AwayScore
	}
	w.mu.Unlock()
	w.notify()
}

// onStatusChange replaces the status and resynchronizes the minute;
// the authoritative minute always wins over the local ticker.
func (w *DetailWatcher) onStatusChange(data json.RawMessage) {
	var p models.StatusChangePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != w.matchID {
		return
	}
	w.mu.Lock()
	if w.match != nil {
		w.match.Status = p.Status
		if p.Minute >= 0 {
			w.match.Minute = p.Minute
		}
	}
	w.mu.Unlock()
	w.notify()
}

// onMatchEvent prepends a timeline event, newest first. Redelivered
// events are deduplicated by id.
func (w *DetailWatcher) onMatchEvent(data json.RawMessage) {
	var p models.MatchEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != w.matchID {
		return
	}
	w.mu.Lock()
	if w.match == nil {
		w.mu.Unlock()
		return
	}
	if p.ID != "" {
		if _, dup := w.seen[p.ID]; dup {
			w.mu.Unlock()
			return
		}
		w.seen[p.ID] = struct{}{}
	}
	w.match.Events = append([]models.MatchEvent{p.MatchEvent}, w.match.Events...)
	w.mu.Unlock()
	w.notify()
}

// onStatsUpdate replaces the statistics snapshot wholesale
func (w *DetailWatcher) onStatsUpdate(data json.RawMessage) {
	var p models.StatsUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID != w.matchID {
		return
	}
	w.mu.Lock()
	if w.match != nil {
		w.match.Statistics = p.Statistics
	}
	w.mu.Unlock()
	w.notify()
}

// onConnStatus re-issues the subscription command after a reconnect.
// The connection manager does not resubscribe on behalf of consumers.
func (w *DetailWatcher) onConnStatus(s socket.Status) {
	if s.State != socket.StateConnected {
		return
	}
	w.mu.Lock()
	active := w.opened && !w.closed
	w.mu.Unlock()
	if active {
		w.bus.Emit(socket.EventSubscribeMatch, models.SubscribeMatchPayload{MatchID: w.matchID})
	}
}

// runTicker advances the minute locally between server pushes. It only
// has an effect while the match is in play; any status change from the
// server resets the minute to the authoritative value.
func (w *DetailWatcher) runTicker() {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.mu.Lock()
			advanced := false
			if w.match != nil && w.match.Status.IsLive() {
				w.match.Minute++
				advanced = true
			}
			w.mu.Unlock()
			if advanced {
				w.notify()
			}
		case <-w.tickerStop:
			return
		}
	}
}

func (w *DetailWatcher) notify() {
	select {
	case w.updates <- struct{}{}:
	default:
	}
}
