package complaint

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type adminSource struct {
	repo Repository
}

// NewAdminSource surfaces pending complaints filed after the admin's watermark.
func NewAdminSource(repo Repository) notification.Source {
	return &adminSource{repo: repo}
}

func (src *adminSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	complaints, err := src.repo.FilterComplaints(ctx, Filter{
		Statuses:     []Status{StatusPending},
		CreatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(complaints))
	for _, cpl := range complaints {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeComplaint, cpl.ID),
			Type:     notification.TypeComplaint,
			Title:    "New complaint",
			Subtitle: cpl.Category + ": " + cpl.Description,
			Time:     cpl.CreatedAt,
			Data: map[string]interface{}{
				"complaintId": cpl.ID,
				"studentId":   cpl.StudentID,
			},
		})
	}
	return events, nil
}

type studentSource struct {
	repo Repository
}

// NewStudentSource surfaces the student's own complaints whose status moved
// (to in-progress or resolved) after the student's watermark.
func NewStudentSource(repo Repository) notification.Source {
	return &studentSource{repo: repo}
}

func (src *studentSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	complaints, err := src.repo.FilterComplaints(ctx, Filter{
		StudentID:    q.UserID,
		Statuses:     []Status{StatusInProgress, StatusResolved},
		UpdatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(complaints))
	for _, cpl := range complaints {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeComplaint, cpl.ID),
			Type:     notification.TypeComplaint,
			Title:    "Complaint " + string(cpl.Status),
			Subtitle: cpl.Description,
			Time:     cpl.UpdatedAt,
			Data: map[string]interface{}{
				"complaintId": cpl.ID,
				"status":      string(cpl.Status),
			},
		})
	}
	return events, nil
}
