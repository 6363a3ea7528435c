package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/laundry"
)

type laundryRepository struct {
	db *laundryTable
}

var _ laundry.Repository = (*laundryRepository)(nil) // interface compliance check

func NewLaundryRepository(db *DB) *laundryRepository {
	return &laundryRepository{db: db.laundry}
}

func (repo *laundryRepository) CreateRequest(_ context.Context, req laundry.Request) (laundry.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req.ID = uuid.New().String()
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *laundryRepository) GetRequestByID(_ context.Context, id string) (laundry.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return laundry.Request{}, laundry.ErrNotFound
}

func (repo *laundryRepository) FilterRequests(_ context.Context, filter laundry.Filter) ([]laundry.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]laundry.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		if filter.StudentID != "" && req.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !laundryStatusIn(req.Status, filter.Statuses) {
			continue
		}
		if !filter.CreatedAfter.IsZero() && !req.CreatedAt.After(filter.CreatedAfter) {
			continue
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *laundryRepository) UpdateRequestStatus(_ context.Context, id string, status laundry.Status, updatedAt time.Time) (laundry.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req, ok := repo.db.table[id]
	if !ok {
		return laundry.Request{}, laundry.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = updatedAt
	return *req, nil
}

func laundryStatusIn(s laundry.Status, statuses []laundry.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
