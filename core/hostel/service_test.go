package hostel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core/notification"
)

type fakeRepo struct {
	busTimings map[string]BusTiming
	contacts   map[string]EmergencyContact
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		busTimings: make(map[string]BusTiming),
		contacts:   make(map[string]EmergencyContact),
	}
}

func (r *fakeRepo) UpsertBusTiming(_ context.Context, bt BusTiming) (BusTiming, error) {
	if bt.ID == "" {
		bt.ID = fmt.Sprintf("bt%d", len(r.busTimings)+1)
	}
	r.busTimings[bt.ID] = bt
	return bt, nil
}

func (r *fakeRepo) QueryBusTimings(_ context.Context, updatedAfter time.Time) ([]BusTiming, error) {
	var timings []BusTiming
	for _, bt := range r.busTimings {
		if !updatedAfter.IsZero() && !bt.UpdatedAt.After(updatedAfter) {
			continue
		}
		timings = append(timings, bt)
	}
	return timings, nil
}

func (r *fakeRepo) DeleteBusTiming(_ context.Context, id string) error {
	if _, ok := r.busTimings[id]; !ok {
		return ErrNotFound
	}
	delete(r.busTimings, id)
	return nil
}

func (r *fakeRepo) UpsertEmergencyContact(_ context.Context, ec EmergencyContact) (EmergencyContact, error) {
	if ec.ID == "" {
		ec.ID = fmt.Sprintf("ec%d", len(r.contacts)+1)
	}
	r.contacts[ec.ID] = ec
	return ec, nil
}

func (r *fakeRepo) QueryEmergencyContacts(_ context.Context, updatedAfter time.Time) ([]EmergencyContact, error) {
	var contacts []EmergencyContact
	for _, ec := range r.contacts {
		if !updatedAfter.IsZero() && !ec.UpdatedAt.After(updatedAfter) {
			continue
		}
		contacts = append(contacts, ec)
	}
	return contacts, nil
}

func (r *fakeRepo) DeleteEmergencyContact(_ context.Context, id string) error {
	if _, ok := r.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func TestService_busTimings(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	bt, err := svc.SaveBusTiming(ctx, UpsertBusTiming{Route: "Campus - City", Departs: "08:30"})
	require.NoError(t, err)
	assert.NotEmpty(t, bt.ID)
	assert.False(t, bt.UpdatedAt.IsZero())

	// saving with the ID updates in place and bumps UpdatedAt
	prev := bt.UpdatedAt
	bt2, err := svc.SaveBusTiming(ctx, UpsertBusTiming{ID: bt.ID, Route: "Campus - City", Departs: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, bt.ID, bt2.ID)
	assert.Equal(t, "09:00", bt2.Departs)
	assert.False(t, bt2.UpdatedAt.Before(prev))

	timings, err := svc.BusTimings(ctx)
	require.NoError(t, err)
	assert.Len(t, timings, 1)

	require.NoError(t, svc.DeleteBusTiming(ctx, bt.ID))
	assert.Equal(t, ErrNotFound, svc.DeleteBusTiming(ctx, bt.ID))
}

func TestService_emergencyContacts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	ec, err := svc.SaveEmergencyContact(ctx, UpsertEmergencyContact{Label: "Campus security", Phone: "+243 999 000 111"})
	require.NoError(t, err)
	assert.NotEmpty(t, ec.ID)

	contacts, err := svc.EmergencyContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	require.NoError(t, svc.DeleteEmergencyContact(ctx, ec.ID))
	assert.Equal(t, ErrNotFound, svc.DeleteEmergencyContact(ctx, ec.ID))
}

func TestSources_Events(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	repo := newFakeRepo()
	repo.busTimings["bt1"] = BusTiming{ID: "bt1", Route: "Campus - City", Departs: "08:30", UpdatedAt: now}
	repo.busTimings["bt2"] = BusTiming{ID: "bt2", Route: "Campus - Airport", Departs: "06:00", UpdatedAt: now.Add(-2 * time.Hour)}
	repo.contacts["ec1"] = EmergencyContact{ID: "ec1", Label: "Campus security", Phone: "+243 999 000 111", UpdatedAt: now}

	t.Run("bus source filters by watermark", func(t *testing.T) {
		events, err := NewBusSource(repo).Events(ctx, notification.Query{UserID: "std1", Since: now.Add(-time.Hour)})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "bus-bt1", events[0].ID)
		assert.Equal(t, notification.TypeBus, events[0].Type)
		assert.Equal(t, "Campus - City departs 08:30", events[0].Subtitle)
	})

	t.Run("emergency source", func(t *testing.T) {
		events, err := NewEmergencySource(repo).Events(ctx, notification.Query{UserID: "std1"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "emergency-contact-ec1", events[0].ID)
		assert.Equal(t, "Campus security: +243 999 000 111", events[0].Subtitle)
	})
}
