package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/leave"
)

type leaveRepository struct {
	db *leaveTable
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *DB) *leaveRepository {
	return &leaveRepository{db: db.leave}
}

func (repo *leaveRepository) CreateLeave(_ context.Context, lv leave.Leave) (leave.Leave, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lv.ID = uuid.New().String()
	repo.db.table[lv.ID] = &lv
	return lv, nil
}

func (repo *leaveRepository) GetLeaveByID(_ context.Context, id string) (leave.Leave, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lv, ok := repo.db.table[id]; ok {
		return *lv, nil
	}
	return leave.Leave{}, leave.ErrNotFound
}

func (repo *leaveRepository) FilterLeaves(_ context.Context, filter leave.Filter) ([]leave.Leave, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	leaves := make([]leave.Leave, 0, len(repo.db.table))
	for _, lv := range repo.db.table {
		if filter.StudentID != "" && lv.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !leaveStatusIn(lv.Status, filter.Statuses) {
			continue
		}
		if !filter.CreatedAfter.IsZero() && !lv.CreatedAt.After(filter.CreatedAfter) {
			continue
		}
		if !filter.UpdatedAfter.IsZero() && !lv.UpdatedAt.After(filter.UpdatedAfter) {
			continue
		}
		leaves = append(leaves, *lv)
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].CreatedAt.After(leaves[j].CreatedAt) })
	return leaves, nil
}

func (repo *leaveRepository) UpdateLeaveStatus(_ context.Context, id string, status leave.Status, updatedAt time.Time) (leave.Leave, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lv, ok := repo.db.table[id]
	if !ok {
		return leave.Leave{}, leave.ErrNotFound
	}
	lv.Status = status
	lv.UpdatedAt = updatedAt
	return *lv, nil
}

func leaveStatusIn(s leave.Status, statuses []leave.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
