package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/laundry"
)

type laundryRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Items     string    `db:"items"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row laundryRow) request() laundry.Request {
	return laundry.Request{
		ID:        row.ID,
		StudentID: row.StudentID,
		Items:     row.Items,
		Status:    laundry.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type laundryRepository struct {
	db *sqlx.DB
}

var _ laundry.Repository = (*laundryRepository)(nil) // interface compliance check

func NewLaundryRepository(db *sqlx.DB) *laundryRepository {
	return &laundryRepository{db: db}
}

func (repo *laundryRepository) CreateRequest(ctx context.Context, req laundry.Request) (laundry.Request, error) {
	req.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO laundry_request (id, student_id, items, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.StudentID, req.Items, req.Status, req.CreatedAt.UTC(), req.UpdatedAt.UTC(),
	)
	if err != nil {
		return laundry.Request{}, errors.Wrap(err, "inserting laundry request")
	}
	return req, nil
}

func (repo *laundryRepository) GetRequestByID(ctx context.Context, id string) (laundry.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return laundry.Request{}, laundry.ErrNotFound
	}
	var row laundryRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM laundry_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return laundry.Request{}, laundry.ErrNotFound
	}
	if err != nil {
		return laundry.Request{}, errors.Wrap(err, "finding laundry request")
	}
	return row.request(), nil
}

func (repo *laundryRepository) FilterRequests(ctx context.Context, filter laundry.Filter) ([]laundry.Request, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		conds = append(conds, `student_id = ?`)
		args = append(args, filter.StudentID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			placeholders = append(placeholders, "?")
			args = append(args, status)
		}
		conds = append(conds, `status IN (`+strings.Join(placeholders, ", ")+`)`)
	}
	if !filter.CreatedAfter.IsZero() {
		conds = append(conds, `created_at > ?`)
		args = append(args, filter.CreatedAfter.UTC())
	}

	query := `SELECT * FROM laundry_request`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	var rows []laundryRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering laundry requests")
	}
	reqs := make([]laundry.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.request())
	}
	return reqs, nil
}

func (repo *laundryRepository) UpdateRequestStatus(ctx context.Context, id string, status laundry.Status, updatedAt time.Time) (laundry.Request, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE laundry_request SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt.UTC(), id,
	)
	if err != nil {
		return laundry.Request{}, errors.Wrap(err, "updating laundry request status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return laundry.Request{}, laundry.ErrNotFound
	}
	return repo.GetRequestByID(ctx, id)
}
