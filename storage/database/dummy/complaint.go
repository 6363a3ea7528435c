package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/complaint"
)

type complaintRepository struct {
	db *complaintTable
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(db *DB) *complaintRepository {
	return &complaintRepository{db: db.complaint}
}

func (repo *complaintRepository) CreateComplaint(_ context.Context, cpl complaint.Complaint) (complaint.Complaint, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cpl.ID = uuid.New().String()
	repo.db.table[cpl.ID] = &cpl
	return cpl, nil
}

func (repo *complaintRepository) GetComplaintByID(_ context.Context, id string) (complaint.Complaint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cpl, ok := repo.db.table[id]; ok {
		return *cpl, nil
	}
	return complaint.Complaint{}, complaint.ErrNotFound
}

func (repo *complaintRepository) FilterComplaints(_ context.Context, filter complaint.Filter) ([]complaint.Complaint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cpls := make([]complaint.Complaint, 0, len(repo.db.table))
	for _, cpl := range repo.db.table {
		if filter.StudentID != "" && cpl.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !complaintStatusIn(cpl.Status, filter.Statuses) {
			continue
		}
		if !filter.CreatedAfter.IsZero() && !cpl.CreatedAt.After(filter.CreatedAfter) {
			continue
		}
		if !filter.UpdatedAfter.IsZero() && !cpl.UpdatedAt.After(filter.UpdatedAfter) {
			continue
		}
		cpls = append(cpls, *cpl)
	}
	sort.Slice(cpls, func(i, j int) bool { return cpls[i].CreatedAt.After(cpls[j].CreatedAt) })
	return cpls, nil
}

func (repo *complaintRepository) UpdateComplaintStatus(_ context.Context, id string, status complaint.Status, updatedAt time.Time) (complaint.Complaint, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cpl, ok := repo.db.table[id]
	if !ok {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	cpl.Status = status
	cpl.UpdatedAt = updatedAt
	return *cpl, nil
}

func complaintStatusIn(s complaint.Status, statuses []complaint.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
