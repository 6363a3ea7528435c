package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/maintenance"
)

type maintenanceRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Kind      string    `db:"kind"`
	Detail    string    `db:"detail"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row maintenanceRow) request() maintenance.Request {
	return maintenance.Request{
		ID:        row.ID,
		StudentID: row.StudentID,
		Kind:      row.Kind,
		Detail:    row.Detail,
		Status:    maintenance.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type maintenanceRepository struct {
	db *sqlx.DB
}

var _ maintenance.Repository = (*maintenanceRepository)(nil) // interface compliance check

func NewMaintenanceRepository(db *sqlx.DB) *maintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (repo *maintenanceRepository) CreateRequest(ctx context.Context, req maintenance.Request) (maintenance.Request, error) {
	req.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO maintenance_request (id, student_id, kind, detail, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.StudentID, req.Kind, req.Detail, req.Status, req.CreatedAt.UTC(), req.UpdatedAt.UTC(),
	)
	if err != nil {
		return maintenance.Request{}, errors.Wrap(err, "inserting maintenance request")
	}
	return req, nil
}

func (repo *maintenanceRepository) GetRequestByID(ctx context.Context, id string) (maintenance.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	var row maintenanceRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM maintenance_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	if err != nil {
		return maintenance.Request{}, errors.Wrap(err, "finding maintenance request")
	}
	return row.request(), nil
}

func (repo *maintenanceRepository) FilterRequests(ctx context.Context, filter maintenance.Filter) ([]maintenance.Request, error) {
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
	if !filter.UpdatedAfter.IsZero() {
		conds = append(conds, `updated_at > ?`)
		args = append(args, filter.UpdatedAfter.UTC())
	}

	query := `SELECT * FROM maintenance_request`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	var rows []maintenanceRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering maintenance requests")
	}
	reqs := make([]maintenance.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.request())
	}
	return reqs, nil
}

func (repo *maintenanceRepository) UpdateRequestStatus(ctx context.Context, id string, status maintenance.Status, updatedAt time.Time) (maintenance.Request, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE maintenance_request SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt.UTC(), id,
	)
	if err != nil {
		return maintenance.Request{}, errors.Wrap(err, "updating maintenance request status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	return repo.GetRequestByID(ctx, id)
}
