package notice

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type studentSource struct {
	repo Repository
}

// NewStudentSource surfaces notices posted after the student's watermark.
func NewStudentSource(repo Repository) notification.Source {
	return &studentSource{repo: repo}
}

func (src *studentSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	notices, err := src.repo.QueryNotices(ctx, q.Since)
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(notices))
	for _, n := range notices {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeNotice, n.ID),
			Type:     notification.TypeNotice,
			Title:    "New notice: " + n.Title,
			Subtitle: n.Body,
			Time:     n.CreatedAt,
			Data: map[string]interface{}{
				"noticeId": n.ID,
			},
		})
	}
	return events, nil
}
