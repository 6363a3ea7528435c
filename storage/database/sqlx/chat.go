package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/chat"
)

type messageRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	FromAdmin bool      `db:"from_admin"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (row messageRow) message() chat.Message {
	return chat.Message{
		ID:        row.ID,
		StudentID: row.StudentID,
		FromAdmin: row.FromAdmin,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

type conversationRow struct {
	StudentID     string    `db:"student_id"`
	StudentName   string    `db:"student_name"`
	LastBody      string    `db:"last_body"`
	LastMessageAt time.Time `db:"last_message_at"`
	AdminUnread   int       `db:"admin_unread"`
	StudentUnread int       `db:"student_unread"`
}

func (row conversationRow) conversation() chat.Conversation {
	return chat.Conversation{
		StudentID:     row.StudentID,
		StudentName:   row.StudentName,
		LastBody:      row.LastBody,
		LastMessageAt: row.LastMessageAt,
		AdminUnread:   row.AdminUnread,
		StudentUnread: row.StudentUnread,
	}
}

const conversationQuery = `
SELECT c.student_id, u.name AS student_name, c.last_body, c.last_message_at, c.admin_unread, c.student_unread
FROM conversation c
JOIN "user" u ON u.id = c.student_id`

type chatRepository struct {
	db *sqlx.DB
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *sqlx.DB) *chatRepository {
	return &chatRepository{db: db}
}

// SaveMessage inserts the message and bumps the conversation summary in one
// transaction; the counterpart's unread counter goes up by one.
func (repo *chatRepository) SaveMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	msg.ID = uuid.New().String()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "saving message")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO message (id, student_id, from_admin, body, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.StudentID, msg.FromAdmin, msg.Body, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "inserting message")
	}

	adminInc, studentInc := 1, 0
	if msg.FromAdmin {
		adminInc, studentInc = 0, 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversation (student_id, last_body, last_message_at, admin_unread, student_unread)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (student_id) DO UPDATE SET
			last_body = EXCLUDED.last_body,
			last_message_at = EXCLUDED.last_message_at,
			admin_unread = conversation.admin_unread + $4,
			student_unread = conversation.student_unread + $5`,
		msg.StudentID, msg.Body, msg.CreatedAt.UTC(), adminInc, studentInc,
	)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "updating conversation")
	}

	if err = tx.Commit(); err != nil {
		return chat.Message{}, errors.Wrap(err, "saving message")
	}
	return msg, nil
}

func (repo *chatRepository) GetConversation(ctx context.Context, studentID string) (chat.Conversation, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return chat.Conversation{}, chat.ErrNotFound
	}
	var row conversationRow
	err := repo.db.GetContext(ctx, &row, conversationQuery+` WHERE c.student_id = $1`, studentID)
	if err == sql.ErrNoRows {
		return chat.Conversation{}, chat.ErrNotFound
	}
	if err != nil {
		return chat.Conversation{}, errors.Wrap(err, "finding conversation")
	}
	return row.conversation(), nil
}

func (repo *chatRepository) QueryConversations(ctx context.Context) ([]chat.Conversation, error) {
	var rows []conversationRow
	err := repo.db.SelectContext(ctx, &rows, conversationQuery+` ORDER BY c.last_message_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying conversations")
	}
	convs := make([]chat.Conversation, 0, len(rows))
	for _, row := range rows {
		convs = append(convs, row.conversation())
	}
	return convs, nil
}

func (repo *chatRepository) QueryMessages(ctx context.Context, studentID string) ([]chat.Message, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, nil
	}
	var rows []messageRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, student_id, from_admin, body, created_at FROM message WHERE student_id = $1 ORDER BY created_at`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	msgs := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.message())
	}
	return msgs, nil
}

func (repo *chatRepository) MarkConversationRead(ctx context.Context, studentID string, forAdmin bool) error {
	column := "student_unread"
	if forAdmin {
		column = "admin_unread"
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE conversation SET `+column+` = 0 WHERE student_id = $1`, studentID)
	if err != nil {
		return errors.Wrap(err, "marking conversation read")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return chat.ErrNotFound
	}
	return nil
}
