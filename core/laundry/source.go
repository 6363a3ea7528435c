package laundry

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type adminSource struct {
	repo Repository
}

// NewAdminSource surfaces pending laundry requests placed after the admin's
// watermark. Laundry progress is not notified back to students.
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
			ID:       notification.EventID(notification.TypeLaundry, req.ID),
			Type:     notification.TypeLaundry,
			Title:    "New laundry request",
			Subtitle: req.Items,
			Time:     req.CreatedAt,
			Data: map[string]interface{}{
				"requestId": req.ID,
				"studentId": req.StudentID,
			},
		})
	}
	return events, nil
}
