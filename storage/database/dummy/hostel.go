package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/hostel"
)

type hostelRepository struct {
	db *hostelTable
}

var _ hostel.Repository = (*hostelRepository)(nil) // interface compliance check

func NewHostelRepository(db *DB) *hostelRepository {
	return &hostelRepository{db: db.hostel}
}

func (repo *hostelRepository) UpsertBusTiming(_ context.Context, bt hostel.BusTiming) (hostel.BusTiming, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if bt.ID == "" {
		bt.ID = uuid.New().String()
	}
	repo.db.busTimings[bt.ID] = &bt
	return bt, nil
}

func (repo *hostelRepository) QueryBusTimings(_ context.Context, updatedAfter time.Time) ([]hostel.BusTiming, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	timings := make([]hostel.BusTiming, 0, len(repo.db.busTimings))
	for _, bt := range repo.db.busTimings {
		if !updatedAfter.IsZero() && !bt.UpdatedAt.After(updatedAfter) {
			continue
		}
		timings = append(timings, *bt)
	}
	sort.Slice(timings, func(i, j int) bool { return timings[i].Departs < timings[j].Departs })
	return timings, nil
}

func (repo *hostelRepository) DeleteBusTiming(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.busTimings, id)
	return nil
}

func (repo *hostelRepository) UpsertEmergencyContact(_ context.Context, ec hostel.EmergencyContact) (hostel.EmergencyContact, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if ec.ID == "" {
		ec.ID = uuid.New().String()
	}
	repo.db.contacts[ec.ID] = &ec
	return ec, nil
}

func (repo *hostelRepository) QueryEmergencyContacts(_ context.Context, updatedAfter time.Time) ([]hostel.EmergencyContact, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	contacts := make([]hostel.EmergencyContact, 0, len(repo.db.contacts))
	for _, ec := range repo.db.contacts {
		if !updatedAfter.IsZero() && !ec.UpdatedAt.After(updatedAfter) {
			continue
		}
		contacts = append(contacts, *ec)
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Label < contacts[j].Label })
	return contacts, nil
}

func (repo *hostelRepository) DeleteEmergencyContact(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.contacts, id)
	return nil
}
