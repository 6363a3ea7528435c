package complaint

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core"
	"github.com/trezcool/makazi/core/notification"
)

type fakeRepo struct {
	cpls map[string]Complaint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cpls: make(map[string]Complaint)}
}

func (r *fakeRepo) CreateComplaint(_ context.Context, cpl Complaint) (Complaint, error) {
	cpl.ID = fmt.Sprintf("c%d", len(r.cpls)+1)
	r.cpls[cpl.ID] = cpl
	return cpl, nil
}

func (r *fakeRepo) GetComplaintByID(_ context.Context, id string) (Complaint, error) {
	cpl, ok := r.cpls[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	return cpl, nil
}

func (r *fakeRepo) FilterComplaints(_ context.Context, filter Filter) ([]Complaint, error) {
	var cpls []Complaint
	for _, cpl := range r.cpls {
		if filter.StudentID != "" && cpl.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(cpl.Status, filter.Statuses) {
			continue
		}
		if !filter.CreatedAfter.IsZero() && !cpl.CreatedAt.After(filter.CreatedAfter) {
			continue
		}
		if !filter.UpdatedAfter.IsZero() && !cpl.UpdatedAt.After(filter.UpdatedAfter) {
			continue
		}
		cpls = append(cpls, cpl)
	}
	return cpls, nil
}

func (r *fakeRepo) UpdateComplaintStatus(_ context.Context, id string, status Status, updatedAt time.Time) (Complaint, error) {
	cpl, ok := r.cpls[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	cpl.Status = status
	cpl.UpdatedAt = updatedAt
	r.cpls[id] = cpl
	return cpl, nil
}

func statusIn(s Status, statuses []Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func TestService_SetStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{name: "pending to in-progress", from: StatusPending, to: StatusInProgress},
		{name: "pending straight to resolved", from: StatusPending, to: StatusResolved},
		{name: "in-progress to resolved", from: StatusInProgress, to: StatusResolved},
		{name: "no going back to pending", from: StatusInProgress, to: StatusPending, wantErr: true},
		{name: "resolved is final", from: StatusResolved, to: StatusInProgress, wantErr: true},
		{name: "no self transition", from: StatusPending, to: StatusPending, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newFakeRepo()
			svc := NewService(repo)

			cpl, err := svc.Create(ctx, "std1", NewComplaint{Category: "plumbing", Description: "leaky tap"})
			require.NoError(t, err)
			if tt.from != StatusPending {
				cpl, err = repo.UpdateComplaintStatus(ctx, cpl.ID, tt.from, time.Now().UTC())
				require.NoError(t, err)
			}

			got, err := svc.SetStatus(ctx, cpl.ID, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				var vErr *core.ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			assert.True(t, got.UpdatedAt.After(cpl.UpdatedAt) || got.UpdatedAt.Equal(cpl.UpdatedAt))
		})
	}
}

func TestSources_Events(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	cpl1, err := svc.Create(ctx, "std1", NewComplaint{Category: "plumbing", Description: "leaky tap"})
	require.NoError(t, err)
	cpl2, err := svc.Create(ctx, "std2", NewComplaint{Category: "electrical", Description: "dead socket"})
	require.NoError(t, err)

	adminSrc := NewAdminSource(repo)
	studentSrc := NewStudentSource(repo)

	// pending complaints notify admins, not students
	events, err := adminSrc.Events(ctx, notification.Query{UserID: "admin1"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = studentSrc.Events(ctx, notification.Query{UserID: "std1"})
	require.NoError(t, err)
	assert.Empty(t, events)

	// a status change flips the notification to the filing student only
	_, err = svc.SetStatus(ctx, cpl1.ID, StatusInProgress)
	require.NoError(t, err)

	events, err = studentSrc.Events(ctx, notification.Query{UserID: "std1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, notification.EventID(notification.TypeComplaint, cpl1.ID), events[0].ID)

	events, err = studentSrc.Events(ctx, notification.Query{UserID: "std2"})
	require.NoError(t, err)
	assert.Empty(t, events)

	// admins no longer see the picked-up complaint, still see the pending one
	events, err = adminSrc.Events(ctx, notification.Query{UserID: "admin1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, notification.EventID(notification.TypeComplaint, cpl2.ID), events[0].ID)
}
