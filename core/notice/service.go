package notice

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notice not found")

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		GetNoticeByID(ctx context.Context, id string) (Notice, error)
		// QueryNotices returns notices newest-first, optionally only those
		// created after the given time.
		QueryNotices(ctx context.Context, createdAfter time.Time) ([]Notice, error)
		DeleteNotice(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nn NewNotice) (Notice, error) {
	n := Notice{
		Title:     nn.Title,
		Body:      nn.Body,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateNotice(ctx, n)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNoticeByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Notice, error) {
	return svc.repo.QueryNotices(ctx, time.Time{})
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNotice(ctx, id)
}
