package leave

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type adminSource struct {
	repo Repository
}

// NewAdminSource surfaces pending leave requests filed after the admin's watermark.
func NewAdminSource(repo Repository) notification.Source {
	return &adminSource{repo: repo}
}

func (src *adminSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	leaves, err := src.repo.FilterLeaves(ctx, Filter{
		Statuses:     []Status{StatusPending},
		CreatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(leaves))
	for _, lv := range leaves {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeLeave, lv.ID),
			Type:     notification.TypeLeave,
			Title:    "New leave request",
			Subtitle: lv.Reason,
			Time:     lv.CreatedAt,
			Data: map[string]interface{}{
				"leaveId":   lv.ID,
				"studentId": lv.StudentID,
			},
		})
	}
	return events, nil
}

type studentSource struct {
	repo Repository
}

// NewStudentSource surfaces the student's own leave requests decided
// (approved or rejected) after the student's watermark.
func NewStudentSource(repo Repository) notification.Source {
	return &studentSource{repo: repo}
}

func (src *studentSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	leaves, err := src.repo.FilterLeaves(ctx, Filter{
		StudentID:    q.UserID,
		Statuses:     []Status{StatusApproved, StatusRejected},
		UpdatedAfter: q.Since,
	})
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(leaves))
	for _, lv := range leaves {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeLeave, lv.ID),
			Type:     notification.TypeLeave,
			Title:    "Leave request " + string(lv.Status),
			Subtitle: lv.Reason,
			Time:     lv.UpdatedAt,
			Data: map[string]interface{}{
				"leaveId": lv.ID,
				"status":  string(lv.Status),
			},
		})
	}
	return events, nil
}
