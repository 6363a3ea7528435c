package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/maintenance"
)

type maintenanceRepository struct {
	db *maintenanceTable
}

var _ maintenance.Repository = (*maintenanceRepository)(nil) // interface compliance check

func NewMaintenanceRepository(db *DB) *maintenanceRepository {
	return &maintenanceRepository{db: db.maintenance}
}

func (repo *maintenanceRepository) CreateRequest(_ context.Context, req maintenance.Request) (maintenance.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req.ID = uuid.New().String()
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *maintenanceRepository) GetRequestByID(_ context.Context, id string) (maintenance.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return maintenance.Request{}, maintenance.ErrNotFound
}

func (repo *maintenanceRepository) FilterRequests(_ context.Context, filter maintenance.Filter) ([]maintenance.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]maintenance.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		if filter.StudentID != "" && req.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !maintenanceStatusIn(req.Status, filter.Statuses) {
			continue
		}
		if !filter.CreatedAfter.IsZero() && !req.CreatedAt.After(filter.CreatedAfter) {
			continue
		}
		if !filter.UpdatedAfter.IsZero() && !req.UpdatedAt.After(filter.UpdatedAfter) {
			continue
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *maintenanceRepository) UpdateRequestStatus(_ context.Context, id string, status maintenance.Status, updatedAt time.Time) (maintenance.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req, ok := repo.db.table[id]
	if !ok {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = updatedAt
	return *req, nil
}

func maintenanceStatusIn(s maintenance.Status, statuses []maintenance.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
