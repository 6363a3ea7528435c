package complaint

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/makazi/core"
)

var (
	ErrNotFound          = errors.New("complaint not found")
	errInvalidTransition = errors.New("invalid status transition")
)

type (
	Repository interface {
		CreateComplaint(ctx context.Context, cpl Complaint) (Complaint, error)
		GetComplaintByID(ctx context.Context, id string) (Complaint, error)
		FilterComplaints(ctx context.Context, filter Filter) ([]Complaint, error)
		UpdateComplaintStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (Complaint, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, studentID string, nc NewComplaint) (Complaint, error) {
	now := time.Now().UTC()
	cpl := Complaint{
		StudentID:   studentID,
		Category:    nc.Category,
		Description: nc.Description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateComplaint(ctx, cpl)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Complaint, error) {
	return svc.repo.GetComplaintByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Complaint, error) {
	return svc.repo.FilterComplaints(ctx, filter)
}

// SetStatus advances a complaint along pending → in-progress → resolved.
func (svc *Service) SetStatus(ctx context.Context, id string, status Status) (Complaint, error) {
	cpl, err := svc.repo.GetComplaintByID(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if !cpl.Status.CanTransitionTo(status) {
		return Complaint{}, core.NewValidationError(errInvalidTransition, core.FieldError{
			Field: "status", Error: errInvalidTransition.Error(),
		})
	}
	return svc.repo.UpdateComplaintStatus(ctx, id, status, time.Now().UTC())
}
