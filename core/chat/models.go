package chat

import (
	"time"

	"github.com/trezcool/makazi/core"
)

// Message is one chat message between a student and the hostel office.
type Message struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	FromAdmin bool      `json:"from_admin"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Conversation is the per-student thread summary. The unread counters are
// owned by this package alone: sending bumps the counterpart's counter,
// opening the thread zeroes the reader's own. Nothing else may write them.
type Conversation struct {
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	LastBody      string    `json:"last_body"`
	LastMessageAt time.Time `json:"last_message_at"`
	AdminUnread   int       `json:"admin_unread"`
	StudentUnread int       `json:"student_unread"`
}

// NewMessage contains information needed to post a Message.
type NewMessage struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (nm *NewMessage) Validate() error {
	nm.Body = core.CleanString(nm.Body)
	return core.Validate.Struct(nm)
}
