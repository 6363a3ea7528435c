package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/notice"
)

type noticeRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (row noticeRow) notice() notice.Notice {
	return notice.Notice{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

type noticeRepository struct {
	db *sqlx.DB
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *sqlx.DB) *noticeRepository {
	return &noticeRepository{db: db}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	n.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO notice (id, title, body, created_at) VALUES ($1, $2, $3, $4)`,
		n.ID, n.Title, n.Body, n.CreatedAt.UTC(),
	)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return n, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return notice.Notice{}, notice.ErrNotFound
	}
	var row noticeRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM notice WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return notice.Notice{}, notice.ErrNotFound
	}
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "finding notice")
	}
	return row.notice(), nil
}

func (repo *noticeRepository) QueryNotices(ctx context.Context, createdAfter time.Time) ([]notice.Notice, error) {
	query := `SELECT * FROM notice`
	args := make([]interface{}, 0, 1)
	if !createdAfter.IsZero() {
		query += ` WHERE created_at > $1`
		args = append(args, createdAfter.UTC())
	}
	query += ` ORDER BY created_at DESC`

	var rows []noticeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	notices := make([]notice.Notice, 0, len(rows))
	for _, row := range rows {
		notices = append(notices, row.notice())
	}
	return notices, nil
}

func (repo *noticeRepository) DeleteNotice(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM notice WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return nil
}
