package hostel

import (
	"context"

	"github.com/trezcool/makazi/core/notification"
)

type busSource struct {
	repo Repository
}

// NewBusSource surfaces shuttle timetable changes made after the student's
// watermark.
func NewBusSource(repo Repository) notification.Source {
	return &busSource{repo: repo}
}

func (src *busSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	timings, err := src.repo.QueryBusTimings(ctx, q.Since)
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(timings))
	for _, bt := range timings {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeBus, bt.ID),
			Type:     notification.TypeBus,
			Title:    "Bus timing updated",
			Subtitle: bt.Route + " departs " + bt.Departs,
			Time:     bt.UpdatedAt,
			Data: map[string]interface{}{
				"busTimingId": bt.ID,
			},
		})
	}
	return events, nil
}

type emergencySource struct {
	repo Repository
}

// NewEmergencySource surfaces emergency-contact changes made after the
// student's watermark.
func NewEmergencySource(repo Repository) notification.Source {
	return &emergencySource{repo: repo}
}

func (src *emergencySource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	contacts, err := src.repo.QueryEmergencyContacts(ctx, q.Since)
	if err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(contacts))
	for _, ec := range contacts {
		events = append(events, notification.Event{
			ID:       notification.EventID(notification.TypeEmergency, ec.ID),
			Type:     notification.TypeEmergency,
			Title:    "Emergency contact updated",
			Subtitle: ec.Label + ": " + ec.Phone,
			Time:     ec.UpdatedAt,
			Data: map[string]interface{}{
				"contactId": ec.ID,
			},
		})
	}
	return events, nil
}
