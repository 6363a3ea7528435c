package hostel

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("hostel info entry not found")

type (
	Repository interface {
		UpsertBusTiming(ctx context.Context, bt BusTiming) (BusTiming, error)
		// QueryBusTimings returns timetable entries, optionally only those
		// updated after the given time.
		QueryBusTimings(ctx context.Context, updatedAfter time.Time) ([]BusTiming, error)
		DeleteBusTiming(ctx context.Context, id string) error

		UpsertEmergencyContact(ctx context.Context, ec EmergencyContact) (EmergencyContact, error)
		QueryEmergencyContacts(ctx context.Context, updatedAfter time.Time) ([]EmergencyContact, error)
		DeleteEmergencyContact(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) SaveBusTiming(ctx context.Context, ub UpsertBusTiming) (BusTiming, error) {
	bt := BusTiming{
		ID:        ub.ID,
		Route:     ub.Route,
		Departs:   ub.Departs,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertBusTiming(ctx, bt)
}

func (svc *Service) BusTimings(ctx context.Context) ([]BusTiming, error) {
	return svc.repo.QueryBusTimings(ctx, time.Time{})
}

func (svc *Service) DeleteBusTiming(ctx context.Context, id string) error {
	return svc.repo.DeleteBusTiming(ctx, id)
}

func (svc *Service) SaveEmergencyContact(ctx context.Context, uc UpsertEmergencyContact) (EmergencyContact, error) {
	ec := EmergencyContact{
		ID:        uc.ID,
		Label:     uc.Label,
		Phone:     uc.Phone,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertEmergencyContact(ctx, ec)
}

func (svc *Service) EmergencyContacts(ctx context.Context) ([]EmergencyContact, error) {
	return svc.repo.QueryEmergencyContacts(ctx, time.Time{})
}

func (svc *Service) DeleteEmergencyContact(ctx context.Context, id string) error {
	return svc.repo.DeleteEmergencyContact(ctx, id)
}
