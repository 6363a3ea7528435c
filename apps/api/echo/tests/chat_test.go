package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/makazi/core/chat"
	"github.com/trezcool/makazi/core/user"
	"github.com/trezcool/makazi/tests"
)

func Test_chatApi(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Warden", "warden", "warden@test.cd", "", []string{user.RoleAdminWarden}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	decodeMessages := func(t *testing.T, body []byte) []chat.Message {
		t.Helper()
		var msgs []chat.Message
		require.NoError(t, json.Unmarshal(body, &msgs))
		return msgs
	}

	t.Run("auth and role guards", func(t *testing.T) {
		tests := []httpTest{
			{name: "auth required", method: http.MethodGet, path: "/v1/chat/messages", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
			{name: "student thread is student only", method: http.MethodGet, path: "/v1/chat/messages", token: adminToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "conversations are admin only", method: http.MethodGet, path: "/v1/chat/conversations", token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
				app.ServeHTTP(rec, req)
				checkCodeAndData(t, tt, rec)
			})
		}
	})

	t.Run("empty thread is an empty array", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chat/messages", studentToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("student sends, admin replies", func(t *testing.T) {
		body := marchallObj(t, chat.NewMessage{Body: "hot water is out"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/chat/messages", studentToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// opening the thread marks the admin side read
		req, rec = newAuthRequest(http.MethodGet, "/v1/chat/conversations/"+student.ID+"/messages", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeMessages(t, rec.Body.Bytes()), 1)

		body = marchallObj(t, chat.NewMessage{Body: "on it"})
		req, rec = newAuthRequest(http.MethodPost, "/v1/chat/conversations/"+student.ID+"/messages", adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var msg chat.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
		assert.True(t, msg.FromAdmin)
		assert.Equal(t, student.ID, msg.StudentID)
	})

	t.Run("admin lists conversations", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chat/conversations", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var convs []chat.Conversation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
		require.Len(t, convs, 1)
		assert.Equal(t, student.ID, convs[0].StudentID)
		assert.Equal(t, "Hero", convs[0].StudentName)
		assert.Equal(t, "on it", convs[0].LastBody)
		// the student has not opened the thread since the reply
		assert.Equal(t, 1, convs[0].StudentUnread)
	})

	t.Run("opening the thread marks it read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chat/messages", studentToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		msgs := decodeMessages(t, rec.Body.Bytes())
		require.Len(t, msgs, 2)
		assert.Equal(t, "hot water is out", msgs[0].Body)
		assert.Equal(t, "on it", msgs[1].Body)

		req, rec = newAuthRequest(http.MethodGet, "/v1/chat/conversations", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var convs []chat.Conversation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
		require.Len(t, convs, 1)
		assert.Zero(t, convs[0].StudentUnread)
		// the admin read their side when opening the thread to reply
		assert.Zero(t, convs[0].AdminUnread)
	})
}
