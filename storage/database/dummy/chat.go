package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/makazi/core/chat"
)

type chatRepository struct {
	db    *chatTable
	users *userTable
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *DB) *chatRepository {
	return &chatRepository{db: db.chat, users: db.user}
}

func (repo *chatRepository) studentName(studentID string) string {
	repo.users.RLock()
	defer repo.users.RUnlock()
	if usr, ok := repo.users.table[studentID]; ok {
		return usr.Name
	}
	return ""
}

func (repo *chatRepository) SaveMessage(_ context.Context, msg chat.Message) (chat.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	msg.ID = uuid.New().String()
	repo.db.messages = append(repo.db.messages, msg)

	conv, ok := repo.db.conversations[msg.StudentID]
	if !ok {
		conv = &chat.Conversation{StudentID: msg.StudentID, StudentName: repo.studentName(msg.StudentID)}
		repo.db.conversations[msg.StudentID] = conv
	}
	conv.LastBody = msg.Body
	conv.LastMessageAt = msg.CreatedAt
	if msg.FromAdmin {
		conv.StudentUnread++
	} else {
		conv.AdminUnread++
	}
	return msg, nil
}

func (repo *chatRepository) GetConversation(_ context.Context, studentID string) (chat.Conversation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if conv, ok := repo.db.conversations[studentID]; ok {
		return *conv, nil
	}
	return chat.Conversation{}, chat.ErrNotFound
}

func (repo *chatRepository) QueryConversations(_ context.Context) ([]chat.Conversation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	convs := make([]chat.Conversation, 0, len(repo.db.conversations))
	for _, conv := range repo.db.conversations {
		convs = append(convs, *conv)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].LastMessageAt.After(convs[j].LastMessageAt) })
	return convs, nil
}

func (repo *chatRepository) QueryMessages(_ context.Context, studentID string) ([]chat.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var msgs []chat.Message
	for _, msg := range repo.db.messages {
		if msg.StudentID == studentID {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func (repo *chatRepository) MarkConversationRead(_ context.Context, studentID string, forAdmin bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	conv, ok := repo.db.conversations[studentID]
	if !ok {
		return chat.ErrNotFound
	}
	if forAdmin {
		conv.AdminUnread = 0
	} else {
		conv.StudentUnread = 0
	}
	return nil
}
