package chat

import (
	"context"
	"fmt"

	"github.com/trezcool/makazi/core/notification"
)

// Notification sources. Unread-message events differ from the other domains:
// existence is driven by the stateful unread counter, but the watermark still
// filters them out of the feed (clearing the panel hides even still-unread
// threads until a newer message arrives; the in-app chat badge is unaffected).

type adminSource struct {
	repo Repository
}

func NewAdminSource(repo Repository) notification.Source {
	return &adminSource{repo: repo}
}

func (src *adminSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	convs, err := src.repo.QueryConversations(ctx)
	if err != nil {
		return nil, err
	}

	var events []notification.Event
	for _, conv := range convs {
		if conv.AdminUnread > 0 && conv.LastMessageAt.After(q.Since) {
			events = append(events, messageEvent(conv, conv.AdminUnread, "New messages from "+conv.StudentName))
		}
	}
	return events, nil
}

type studentSource struct {
	repo Repository
}

func NewStudentSource(repo Repository) notification.Source {
	return &studentSource{repo: repo}
}

func (src *studentSource) Events(ctx context.Context, q notification.Query) ([]notification.Event, error) {
	conv, err := src.repo.GetConversation(ctx, q.UserID)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	if conv.StudentUnread > 0 && conv.LastMessageAt.After(q.Since) {
		return []notification.Event{messageEvent(conv, conv.StudentUnread, "New messages from the hostel office")}, nil
	}
	return nil, nil
}

func messageEvent(conv Conversation, unread int, title string) notification.Event {
	return notification.Event{
		ID:       notification.EventID(notification.TypeMessage, conv.StudentID),
		Type:     notification.TypeMessage,
		Title:    title,
		Subtitle: fmt.Sprintf("%d unread: %s", unread, conv.LastBody),
		Time:     conv.LastMessageAt,
		Data: map[string]interface{}{
			"studentId": conv.StudentID,
			"unread":    unread,
		},
	}
}
