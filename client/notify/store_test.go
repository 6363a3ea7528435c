package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core/notification"
)

type fakeFetcher struct {
	mu         sync.Mutex
	events     []notification.Event
	fetchErr   error
	clearErr   error
	fetchCalls int
	clearCalls int
	gotUserID  string
	gotRole    notification.Role
}

func (f *fakeFetcher) Fetch(_ context.Context, userID string, role notification.Role) ([]notification.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.gotUserID = userID
	f.gotRole = role
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	events := make([]notification.Event, len(f.events))
	copy(events, f.events)
	return events, nil
}

func (f *fakeFetcher) Clear(_ context.Context, userID string, role notification.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	f.gotUserID = userID
	f.gotRole = role
	return f.clearErr
}

func (f *fakeFetcher) setEvents(events ...notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = events
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func event(id string, t time.Time) notification.Event {
	return notification.Event{ID: id, Type: notification.TypeNotice, Title: "Notice", Time: t}
}

func TestStore_Start(t *testing.T) {
	now := time.Now().UTC()

	t.Run("fetches immediately", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		fetcher.setEvents(event("notice-2", now), event("notice-1", now.Add(-time.Hour)))

		store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(time.Hour))
		defer store.Stop()
		store.Start(context.Background())

		assert.Equal(t, 2, store.Count())
		list := store.List()
		require.Len(t, list, 2)
		assert.Equal(t, "notice-2", list[0].ID)
		assert.Equal(t, "usr1", fetcher.gotUserID)
		assert.Equal(t, notification.RoleStudent, fetcher.gotRole)
	})

	t.Run("no user is a no-op", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		fetcher.setEvents(event("notice-1", now))

		store := NewStore("", notification.RoleStudent, fetcher)
		store.Start(context.Background())

		assert.Equal(t, 0, store.Count())
		assert.NotNil(t, store.List())
		assert.Empty(t, store.List())
		assert.Zero(t, fetcher.calls())
	})

	t.Run("re-fetches on the interval", func(t *testing.T) {
		fetcher := &fakeFetcher{}

		store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(5*time.Millisecond))
		defer store.Stop()
		store.Start(context.Background())

		require.Equal(t, 0, store.Count())
		fetcher.setEvents(event("notice-1", now))
		assert.Eventually(t, func() bool { return store.Count() == 1 }, time.Second, time.Millisecond)
	})

	t.Run("failed fetch keeps the last good feed", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		fetcher.setEvents(event("notice-1", now))

		store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(5*time.Millisecond))
		defer store.Stop()
		store.Start(context.Background())
		require.Equal(t, 1, store.Count())

		fetcher.mu.Lock()
		fetcher.fetchErr = assert.AnError
		calls := fetcher.fetchCalls
		fetcher.mu.Unlock()

		assert.Eventually(t, func() bool { return fetcher.calls() > calls }, time.Second, time.Millisecond)
		assert.Equal(t, 1, store.Count())
	})

	t.Run("admin default interval", func(t *testing.T) {
		store := NewStore("usr1", notification.RoleAdmin, &fakeFetcher{})
		assert.Equal(t, DefaultAdminInterval, store.interval)

		store = NewStore("usr1", notification.RoleStudent, &fakeFetcher{})
		assert.Equal(t, DefaultStudentInterval, store.interval)
	})
}

func TestStore_Stop(t *testing.T) {
	fetcher := &fakeFetcher{}

	store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(5*time.Millisecond))
	store.Start(context.Background())
	require.Eventually(t, func() bool { return fetcher.calls() > 1 }, time.Second, time.Millisecond)

	store.Stop()
	store.Stop() // safe to call twice

	calls := fetcher.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, fetcher.calls(), "polling must stop")
}

func TestStore_staleResponseDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{}
	fetcher.setEvents(event("notice-1", time.Now().UTC()))

	store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.fetch(ctx) // response landing after Stop

	assert.Equal(t, 0, store.Count())
}

func TestStore_Clear(t *testing.T) {
	now := time.Now().UTC()

	t.Run("optimistic empty", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		fetcher.setEvents(event("notice-1", now))

		store := NewStore("usr1", notification.RoleAdmin, fetcher, WithInterval(time.Hour))
		defer store.Stop()
		store.Start(context.Background())
		require.Equal(t, 1, store.Count())

		require.NoError(t, store.Clear(context.Background()))
		assert.Equal(t, 0, store.Count())
		assert.Equal(t, 1, fetcher.clearCalls)
		assert.Equal(t, "usr1", fetcher.gotUserID)
		assert.Equal(t, notification.RoleAdmin, fetcher.gotRole)
	})

	t.Run("restores feed on failure", func(t *testing.T) {
		fetcher := &fakeFetcher{clearErr: assert.AnError}
		fetcher.setEvents(event("notice-1", now), event("notice-2", now))

		store := NewStore("usr1", notification.RoleStudent, fetcher, WithInterval(time.Hour))
		defer store.Stop()
		store.Start(context.Background())
		require.Equal(t, 2, store.Count())

		assert.Error(t, store.Clear(context.Background()))
		assert.Equal(t, 2, store.Count(), "optimistic update must be reverted")
	})
}

func TestClient(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	feed := []notification.Event{
		{ID: "msg-usr1", Type: notification.TypeMessage, Title: "Hostel Admin", Subtitle: "2 unread: hello", Time: now},
	}

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/notifications":
			_ = json.NewEncoder(w).Encode(feed)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/notifications/clear":
			_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok3n")
	ctx := context.Background()

	events, err := client.Fetch(ctx, "usr1", notification.RoleStudent)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "msg-usr1", events[0].ID)
	assert.True(t, events[0].Time.Equal(now))
	assert.False(t, events[0].Read)
	assert.Equal(t, "Bearer tok3n", gotAuth)

	require.NoError(t, client.Clear(ctx, "usr1", notification.RoleStudent))
}

func TestClient_clearFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok3n")
	assert.Error(t, client.Clear(context.Background(), "usr1", notification.RoleAdmin))
}
