package maintenance

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type adminSource struct {
	repo Repository
}

// NewAdminSource surfaces pending maintenance requests filed after the
// admin's watermark.
func NewAdminSource(repo Repository) notification.Source {
	return &adminSource{repo: repo}
}

func (src *adminSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	reqs, err := src.repo.FilterRequests(ctx, Filter{
		Statuses:     []Status{StatusPending},
		CreatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(reqs))
	for _, req := range reqs {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeService, req.ID),
			Type:     notification.TypeService,
			Title:    "New service request",
			Subtitle: req.Kind + ": " + req.Detail,
			Time:     req.CreatedAt,
			Data: map[string]interface{}{
				"requestId": req.ID,
				"studentId": req.StudentID,
			},
		})
	}
	return events, nil
}

type studentSource struct {
	repo Repository
}

// NewStudentSource surfaces the student's own maintenance requests decided
// (approved, completed or rejected) after the student's watermark.
func NewStudentSource(repo Repository) notification.Source {
	return &studentSource{repo: repo}
}

func (src *studentSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	reqs, err := src.repo.FilterRequests(ctx, Filter{
		StudentID:    q.UserID,
		Statuses:     []Status{StatusApproved, StatusCompleted, StatusRejected},
		UpdatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(reqs))
	for _, req := range reqs {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeService, req.ID),
			Type:     notification.TypeService,
			Title:    "Service request " + string(req.Status),
			Subtitle: req.Kind + ": " + req.Detail,
			Time:     req.UpdatedAt,
			Data: map[string]interface{}{
				"requestId": req.ID,
				"status":    string(req.Status),
			},
		})
	}
	return events, nil
}
