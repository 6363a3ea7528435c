package chat

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/makazi/core"
)

var ErrNotFound = errors.New("conversation not found")

type (
	Repository interface {
		// SaveMessage persists msg, updates the conversation's last-message
		// fields and increments the counterpart's unread counter.
		SaveMessage(ctx context.Context, msg Message) (Message, error)
		GetConversation(ctx context.Context, studentID string) (Conversation, error)
		QueryConversations(ctx context.Context) ([]Conversation, error)
		QueryMessages(ctx context.Context, studentID string) ([]Message, error)
		// MarkConversationRead zeroes the reader's own unread counter.
		MarkConversationRead(ctx context.Context, studentID string, forAdmin bool) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Send(ctx context.Context, studentID string, fromAdmin bool, nm NewMessage) (Message, error) {
	msg := Message{
		StudentID: studentID,
		FromAdmin: fromAdmin,
		Body:      core.CleanString(nm.Body),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.SaveMessage(ctx, msg)
}

// Open marks the caller's side of the thread as read and returns the messages.
func (svc *Service) Open(ctx context.Context, studentID string, forAdmin bool) ([]Message, error) {
	if err := svc.repo.MarkConversationRead(ctx, studentID, forAdmin); err != nil && err != ErrNotFound {
		return nil, err
	}
	return svc.repo.QueryMessages(ctx, studentID)
}

func (svc *Service) Conversation(ctx context.Context, studentID string) (Conversation, error) {
	return svc.repo.GetConversation(ctx, studentID)
}

func (svc *Service) Conversations(ctx context.Context) ([]Conversation, error) {
	return svc.repo.QueryConversations(ctx)
}
