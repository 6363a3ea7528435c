package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/hostel"
)

type busTimingRow struct {
	ID        string    `db:"id"`
	Route     string    `db:"route"`
	Departs   string    `db:"departs"`
	UpdatedAt time.Time `db:"updated_at"`
}

type emergencyContactRow struct {
	ID        string    `db:"id"`
	Label     string    `db:"label"`
	Phone     string    `db:"phone"`
	UpdatedAt time.Time `db:"updated_at"`
}

type hostelRepository struct {
	db *sqlx.DB
}

var _ hostel.Repository = (*hostelRepository)(nil) // interface compliance check

func NewHostelRepository(db *sqlx.DB) *hostelRepository {
	return &hostelRepository{db: db}
}

func (repo *hostelRepository) UpsertBusTiming(ctx context.Context, bt hostel.BusTiming) (hostel.BusTiming, error) {
	if bt.ID == "" {
		bt.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO bus_timing (id, route, departs, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET route = EXCLUDED.route, departs = EXCLUDED.departs, updated_at = EXCLUDED.updated_at`,
		bt.ID, bt.Route, bt.Departs, bt.UpdatedAt.UTC(),
	)
	if err != nil {
		return hostel.BusTiming{}, errors.Wrap(err, "upserting bus timing")
	}
	return bt, nil
}

func (repo *hostelRepository) QueryBusTimings(ctx context.Context, updatedAfter time.Time) ([]hostel.BusTiming, error) {
	query := `SELECT * FROM bus_timing`
	args := make([]interface{}, 0, 1)
	if !updatedAfter.IsZero() {
		query += ` WHERE updated_at > $1`
		args = append(args, updatedAfter.UTC())
	}
	query += ` ORDER BY departs`

	var rows []busTimingRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying bus timings")
	}
	timings := make([]hostel.BusTiming, 0, len(rows))
	for _, row := range rows {
		timings = append(timings, hostel.BusTiming(row))
	}
	return timings, nil
}

func (repo *hostelRepository) DeleteBusTiming(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM bus_timing WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting bus timing")
	}
	return nil
}

func (repo *hostelRepository) UpsertEmergencyContact(ctx context.Context, ec hostel.EmergencyContact) (hostel.EmergencyContact, error) {
	if ec.ID == "" {
		ec.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO emergency_contact (id, label, phone, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at`,
		ec.ID, ec.Label, ec.Phone, ec.UpdatedAt.UTC(),
	)
	if err != nil {
		return hostel.EmergencyContact{}, errors.Wrap(err, "upserting emergency contact")
	}
	return ec, nil
}

func (repo *hostelRepository) QueryEmergencyContacts(ctx context.Context, updatedAfter time.Time) ([]hostel.EmergencyContact, error) {
	query := `SELECT * FROM emergency_contact`
	args := make([]interface{}, 0, 1)
	if !updatedAfter.IsZero() {
		query += ` WHERE updated_at > $1`
		args = append(args, updatedAfter.UTC())
	}
	query += ` ORDER BY label`

	var rows []emergencyContactRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying emergency contacts")
	}
	contacts := make([]hostel.EmergencyContact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, hostel.EmergencyContact(row))
	}
	return contacts, nil
}

func (repo *hostelRepository) DeleteEmergencyContact(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM emergency_contact WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting emergency contact")
	}
	return nil
}
