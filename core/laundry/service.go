package laundry

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("laundry request not found")

type (
	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		GetRequestByID(ctx context.Context, id string) (Request, error)
		FilterRequests(ctx context.Context, filter Filter) ([]Request, error)
		UpdateRequestStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (Request, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, studentID string, nr NewRequest) (Request, error) {
	now := time.Now().UTC()
	req := Request{
		StudentID: studentID,
		Items:     nr.Items,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateRequest(ctx, req)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequestByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Request, error) {
	return svc.repo.FilterRequests(ctx, filter)
}

func (svc *Service) SetStatus(ctx context.Context, id string, status Status) (Request, error) {
	return svc.repo.UpdateRequestStatus(ctx, id, status, time.Now().UTC())
}
