// Package notify maintains a client-side notification store: it polls the
// aggregation endpoint on a fixed interval and exposes the current feed and
// its length to UI components (badge count, overlay list).
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/makazi/core/notification"
)

// Default polling intervals per role. The admin feed merges more sources and
// is polled more aggressively.
const (
	DefaultAdminInterval   = 10 * time.Second
	DefaultStudentInterval = 30 * time.Second
)

// Fetcher abstracts the remote notification API.
type Fetcher interface {
	Fetch(ctx context.Context, userID string, role notification.Role) ([]notification.Event, error)
	Clear(ctx context.Context, userID string, role notification.Role) error
}

type (
	Option func(*Store)

	// Store owns the authoritative current feed for one UI session. It is
	// bound to a single (userID, role) pair at construction; on auth-state
	// changes the old Store is stopped and a new one created.
	Store struct {
		userID   string
		role     notification.Role
		fetcher  Fetcher
		interval time.Duration

		mu     sync.RWMutex
		events []notification.Event
		cancel context.CancelFunc
	}
)

// WithInterval overrides the role default polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

func NewStore(userID string, role notification.Role, fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		userID:   userID,
		role:     role,
		fetcher:  fetcher,
		interval: DefaultStudentInterval,
		events:   []notification.Event{},
	}
	if role == notification.RoleAdmin {
		s.interval = DefaultAdminInterval
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fetches immediately, then re-fetches on the configured interval until
// Stop is called or ctx is cancelled. Without an authenticated user it is a
// no-op: the store stays empty. Calling Start on a running Store is a no-op.
func (s *Store) Start(ctx context.Context) {
	if s.userID == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.fetch(ctx)
	go s.poll(ctx)
}

// Stop cancels the polling timer and any in-flight fetch. Safe to call more
// than once.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Count is the unread badge value, derived from the feed length.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// List returns a snapshot of the current feed, newest first.
func (s *Store) List() []notification.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]notification.Event, len(s.events))
	copy(events, s.events)
	return events
}

// Clear empties the feed optimistically, then clears the remote watermark.
// The previous feed is restored if the remote call fails so the UI can revert.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	prev := s.events
	s.events = []notification.Event{}
	s.mu.Unlock()

	if err := s.fetcher.Clear(ctx, s.userID, s.role); err != nil {
		s.mu.Lock()
		s.events = prev
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) poll(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ticks fire on the timer regardless of prior completion; a slow
			// response never delays the next fetch
			go s.fetch(ctx)
		}
	}
}

func (s *Store) fetch(ctx context.Context) {
	events, err := s.fetcher.Fetch(ctx, s.userID, s.role)
	if err != nil || ctx.Err() != nil {
		// keep the last good feed; responses landing after Stop are stale
		return
	}
	if events == nil {
		events = []notification.Event{}
	}
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
}
