package chat

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core/notification"
)

// fakeRepo mirrors the counter semantics of the SQL repository: saving a
// message bumps the counterpart's unread counter, opening zeroes the
// reader's own.
type fakeRepo struct {
	msgs  []Message
	convs map[string]*Conversation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{convs: make(map[string]*Conversation)}
}

func (r *fakeRepo) SaveMessage(_ context.Context, msg Message) (Message, error) {
	msg.ID = fmt.Sprintf("m%d", len(r.msgs)+1)
	r.msgs = append(r.msgs, msg)

	conv, ok := r.convs[msg.StudentID]
	if !ok {
		conv = &Conversation{StudentID: msg.StudentID, StudentName: "Student " + msg.StudentID}
		r.convs[msg.StudentID] = conv
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

func (r *fakeRepo) GetConversation(_ context.Context, studentID string) (Conversation, error) {
	conv, ok := r.convs[studentID]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return *conv, nil
}

func (r *fakeRepo) QueryConversations(_ context.Context) ([]Conversation, error) {
	convs := make([]Conversation, 0, len(r.convs))
	for _, conv := range r.convs {
		convs = append(convs, *conv)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].LastMessageAt.After(convs[j].LastMessageAt) })
	return convs, nil
}

func (r *fakeRepo) QueryMessages(_ context.Context, studentID string) ([]Message, error) {
	var msgs []Message
	for _, msg := range r.msgs {
		if msg.StudentID == studentID {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func (r *fakeRepo) MarkConversationRead(_ context.Context, studentID string, forAdmin bool) error {
	conv, ok := r.convs[studentID]
	if !ok {
		return ErrNotFound
	}
	if forAdmin {
		conv.AdminUnread = 0
	} else {
		conv.StudentUnread = 0
	}
	return nil
}

func TestService_unreadCounters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	// student writes twice: admin counter climbs, student's stays at zero
	_, err := svc.Send(ctx, "std1", false, NewMessage{Body: "hello"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "std1", false, NewMessage{Body: "anyone there?"})
	require.NoError(t, err)

	conv, err := svc.Conversation(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, 2, conv.AdminUnread)
	assert.Equal(t, 0, conv.StudentUnread)
	assert.Equal(t, "anyone there?", conv.LastBody)

	// admin replies: only the student counter moves
	_, err = svc.Send(ctx, "std1", true, NewMessage{Body: "yes, hi"})
	require.NoError(t, err)

	conv, err = svc.Conversation(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, 2, conv.AdminUnread)
	assert.Equal(t, 1, conv.StudentUnread)

	// admin opens the thread: admin counter zeroes, student counter untouched
	msgs, err := svc.Open(ctx, "std1", true)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	conv, err = svc.Conversation(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, 0, conv.AdminUnread)
	assert.Equal(t, 1, conv.StudentUnread)
}

func TestService_OpenUnknownThread(t *testing.T) {
	svc := NewService(newFakeRepo())

	msgs, err := svc.Open(context.Background(), "nobody", true)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

// Clearing the notification panel must not touch the unread counters: the
// sources are read-only, so counters survive any number of aggregations.
func TestSources_readOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Send(ctx, "std1", false, NewMessage{Body: "leaky tap in 204"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "std1", true, NewMessage{Body: "noted"})
	require.NoError(t, err)

	adminSrc := NewAdminSource(repo)
	studentSrc := NewStudentSource(repo)
	for i := 0; i < 3; i++ {
		_, err = adminSrc.Events(ctx, notification.Query{UserID: "admin1"})
		require.NoError(t, err)
		_, err = studentSrc.Events(ctx, notification.Query{UserID: "std1"})
		require.NoError(t, err)
	}

	conv, err := svc.Conversation(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, 1, conv.AdminUnread)
	assert.Equal(t, 1, conv.StudentUnread)
}

func TestAdminSource_Events(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	src := NewAdminSource(repo)

	_, err := svc.Send(ctx, "std1", false, NewMessage{Body: "hi"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "std2", false, NewMessage{Body: "hello"})
	require.NoError(t, err)

	events, err := src.Events(ctx, notification.Query{UserID: "admin1"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, evt := range events {
		assert.Equal(t, notification.TypeMessage, evt.Type)
		assert.Contains(t, evt.Subtitle, "1 unread")
	}

	// a cleared watermark past the last message hides the thread even though
	// the counter is still non-zero
	events, err = src.Events(ctx, notification.Query{UserID: "admin1", Since: time.Now().UTC().Add(time.Minute)})
	require.NoError(t, err)
	assert.Empty(t, events)

	// reading the thread removes it from the feed
	_, err = svc.Open(ctx, "std1", true)
	require.NoError(t, err)
	events, err = src.Events(ctx, notification.Query{UserID: "admin1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "msg-std2", events[0].ID)
}

func TestStudentSource_Events(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	src := NewStudentSource(repo)

	// no conversation yet
	events, err := src.Events(ctx, notification.Query{UserID: "std1"})
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = svc.Send(ctx, "std1", true, NewMessage{Body: "room inspection friday"})
	require.NoError(t, err)

	events, err = src.Events(ctx, notification.Query{UserID: "std1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "msg-std1", events[0].ID)
	assert.Equal(t, "New messages from the hostel office", events[0].Title)
}
