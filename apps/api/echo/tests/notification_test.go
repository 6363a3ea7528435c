package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core/chat"
	"github.com/trezcool/makazi/core/complaint"
	"github.com/trezcool/makazi/core/hostel"
	"github.com/trezcool/makazi/core/notice"
	"github.com/trezcool/makazi/core/notification"
	"github.com/trezcool/makazi/core/user"
	"github.com/trezcool/makazi/tests"
)

func Test_notificationApi(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	admin := testutil.CreateUser(t, usrRepo, "Warden", "warden", "warden@test.cd", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	getFeed := func(t *testing.T, token string) []string {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
		app.ServeHTTP(rec, req)
		return feedIDs(t, rec)
	}
	clearFeed := func(t *testing.T, token string) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/clear", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"success": true}`)}, rec)
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/notifications")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

		req, rec = newRequest(http.MethodPost, "/v1/notifications/clear")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("empty feeds are empty arrays", func(t *testing.T) {
		assert.Empty(t, getFeed(t, adminToken))
		assert.Empty(t, getFeed(t, studentToken))

		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", studentToken)
		app.ServeHTTP(rec, req)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	// seed events, oldest to newest
	cpl, err := complaintSvc.Create(ctx, student.ID, complaint.NewComplaint{Category: "plumbing", Description: "leaky tap"})
	require.NoError(t, err)
	_, err = chatSvc.Send(ctx, student.ID, false /* fromAdmin */, chat.NewMessage{Body: "hello"})
	require.NoError(t, err)
	ntc, err := noticeSvc.Create(ctx, notice.NewNotice{Title: "Water cut", Body: "No water on friday"})
	require.NoError(t, err)

	cplEvt := notification.EventID(notification.TypeComplaint, cpl.ID)
	msgEvt := notification.EventID(notification.TypeMessage, student.ID)
	ntcEvt := notification.EventID(notification.TypeNotice, ntc.ID)

	t.Run("admin feed merges sources newest first", func(t *testing.T) {
		assert.Equal(t, []string{msgEvt, cplEvt}, getFeed(t, adminToken))
	})

	t.Run("student feed is scoped to student sources", func(t *testing.T) {
		// own message and pending complaint are not student events
		assert.Equal(t, []string{ntcEvt}, getFeed(t, studentToken))
	})

	t.Run("clear empties the feed", func(t *testing.T) {
		clearFeed(t, studentToken)
		assert.Empty(t, getFeed(t, studentToken))

		// idempotent
		clearFeed(t, studentToken)
		assert.Empty(t, getFeed(t, studentToken))

		// the admin watermark is untouched
		assert.Equal(t, []string{msgEvt, cplEvt}, getFeed(t, adminToken))
	})

	t.Run("events after clear resurface", func(t *testing.T) {
		bt, err := hostelSvc.SaveBusTiming(ctx, hostel.UpsertBusTiming{Route: "Campus - City", Departs: "08:30"})
		require.NoError(t, err)

		assert.Equal(t,
			[]string{notification.EventID(notification.TypeBus, bt.ID)},
			getFeed(t, studentToken))
	})

	t.Run("admin clear", func(t *testing.T) {
		clearFeed(t, adminToken)
		assert.Empty(t, getFeed(t, adminToken))

		// a fresh student message bumps the unread counter past the watermark
		_, err := chatSvc.Send(ctx, student.ID, false, chat.NewMessage{Body: "anyone there?"})
		require.NoError(t, err)
		assert.Equal(t, []string{msgEvt}, getFeed(t, adminToken))
	})
}
