package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/leave"
)

type leaveRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Reason    string    `db:"reason"`
	FromDate  time.Time `db:"from_date"`
	ToDate    time.Time `db:"to_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row leaveRow) leave() leave.Leave {
	return leave.Leave{
		ID:        row.ID,
		StudentID: row.StudentID,
		Reason:    row.Reason,
		FromDate:  row.FromDate,
		ToDate:    row.ToDate,
		Status:    leave.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type leaveRepository struct {
	db *sqlx.DB
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *sqlx.DB) *leaveRepository {
	return &leaveRepository{db: db}
}

func (repo *leaveRepository) CreateLeave(ctx context.Context, lv leave.Leave) (leave.Leave, error) {
	lv.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO leave (id, student_id, reason, from_date, to_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lv.ID, lv.StudentID, lv.Reason, lv.FromDate, lv.ToDate, lv.Status, lv.CreatedAt.UTC(), lv.UpdatedAt.UTC(),
	)
	if err != nil {
		return leave.Leave{}, errors.Wrap(err, "inserting leave")
	}
	return lv, nil
}

func (repo *leaveRepository) GetLeaveByID(ctx context.Context, id string) (leave.Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.Leave{}, leave.ErrNotFound
	}
	var row leaveRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM leave WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return leave.Leave{}, leave.ErrNotFound
	}
	if err != nil {
		return leave.Leave{}, errors.Wrap(err, "finding leave")
	}
	return row.leave(), nil
}

func (repo *leaveRepository) FilterLeaves(ctx context.Context, filter leave.Filter) ([]leave.Leave, error) {
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

	query := `SELECT * FROM leave`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	var rows []leaveRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering leaves")
	}
	leaves := make([]leave.Leave, 0, len(rows))
	for _, row := range rows {
		leaves = append(leaves, row.leave())
	}
	return leaves, nil
}

func (repo *leaveRepository) UpdateLeaveStatus(ctx context.Context, id string, status leave.Status, updatedAt time.Time) (leave.Leave, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE leave SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt.UTC(), id,
	)
	if err != nil {
		return leave.Leave{}, errors.Wrap(err, "updating leave status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return leave.Leave{}, leave.ErrNotFound
	}
	return repo.GetLeaveByID(ctx, id)
}
