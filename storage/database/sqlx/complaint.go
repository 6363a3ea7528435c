package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/complaint"
)

type complaintRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row complaintRow) complaint() complaint.Complaint {
	return complaint.Complaint{
		ID:          row.ID,
		StudentID:   row.StudentID,
		Category:    row.Category,
		Description: row.Description,
		Status:      complaint.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type complaintRepository struct {
	db *sqlx.DB
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(db *sqlx.DB) *complaintRepository {
	return &complaintRepository{db: db}
}

func (repo *complaintRepository) CreateComplaint(ctx context.Context, cpl complaint.Complaint) (complaint.Complaint, error) {
	cpl.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO complaint (id, student_id, category, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cpl.ID, cpl.StudentID, cpl.Category, cpl.Description, cpl.Status, cpl.CreatedAt.UTC(), cpl.UpdatedAt.UTC(),
	)
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "inserting complaint")
	}
	return cpl, nil
}

func (repo *complaintRepository) GetComplaintByID(ctx context.Context, id string) (complaint.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	var row complaintRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM complaint WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "finding complaint")
	}
	return row.complaint(), nil
}

func (repo *complaintRepository) FilterComplaints(ctx context.Context, filter complaint.Filter) ([]complaint.Complaint, error) {
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

	query := `SELECT * FROM complaint`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	var rows []complaintRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering complaints")
	}
	cpls := make([]complaint.Complaint, 0, len(rows))
	for _, row := range rows {
		cpls = append(cpls, row.complaint())
	}
	return cpls, nil
}

func (repo *complaintRepository) UpdateComplaintStatus(ctx context.Context, id string, status complaint.Status, updatedAt time.Time) (complaint.Complaint, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE complaint SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt.UTC(), id,
	)
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "updating complaint status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	return repo.GetComplaintByID(ctx, id)
}
