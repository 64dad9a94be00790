package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestLoginStoresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, "secret", req["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	require.False(t, c.IsAuthenticated())
	require.NoError(t, c.Login(context.Background(), "alice", "secret"))

	assert.True(t, c.IsAuthenticated())
	assert.Equal(t, "tok-123", c.Token())

	c.Logout()
	assert.False(t, c.IsAuthenticated())
}

func TestRegisterStoresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bob", req["username"])
		assert.Equal(t, "Bob", req["first_name"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-reg"})
	})

	require.NoError(t, c.Register(context.Background(), "bob", "hunter2", "Bob", "Builder", "555-0100"))
	assert.Equal(t, "tok-reg", c.Token())
}

func TestAPIErrorDecoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	})

	err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, c.IsAuthenticated())
}

func TestBearerTokenIsSent(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"users": []Profile{}})
	})
	c.token = "tok-abc"

	_, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestSendAndShow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/messages":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "bob", req["to_username"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"message": Message{
				ID: 7, FromUsername: "alice", ToUsername: "bob", Body: req["body"],
			}})

		case r.Method == http.MethodGet && r.URL.Path == "/messages/7":
			json.NewEncoder(w).Encode(map[string]any{"message": MessageDetail{
				ID:       7,
				Body:     "hi there",
				FromUser: Profile{Username: "alice"},
				ToUser:   Profile{Username: "bob"},
			}})

		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	c.token = "tok"

	msg, err := c.Send(context.Background(), "bob", "hi there", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.ID)
	assert.Equal(t, "alice", msg.FromUsername)

	detail, err := c.Show(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "hi there", detail.Body)
	assert.Equal(t, "bob", detail.ToUser.Username)
}

func TestMarkRead(t *testing.T) {
	readAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages/7/read", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"id": 7, "read_at": readAt},
		})
	})
	c.token = "tok"

	got, err := c.MarkRead(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, readAt.Equal(got))
}

func TestInboxOutbox(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/alice/to":
			json.NewEncoder(w).Encode(map[string]any{"messages": []Message{{ID: 1}, {ID: 2}}})
		case "/users/alice/from":
			json.NewEncoder(w).Encode(map[string]any{"messages": []Message{}})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	c.token = "tok"

	inbox, err := c.Inbox(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	outbox, err := c.Outbox(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, outbox)
}

func TestAttachmentFlow(t *testing.T) {
	var uploaded []byte

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/attachments":
			json.NewEncoder(w).Encode(map[string]string{
				"key":        "attachments/2026/8/31/xyz",
				"upload_url": "http://" + r.Host + "/put/xyz",
			})

		case r.Method == http.MethodPut && r.URL.Path == "/put/xyz":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			uploaded = body

		case r.Method == http.MethodGet && r.URL.Path == "/messages/7/attachment":
			json.NewEncoder(w).Encode(map[string]string{"download_url": "http://s3/get/xyz"})

		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	c.token = "tok"

	key, uploadURL, err := c.PresignUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "attachments/2026/8/31/xyz", key)

	require.NoError(t, c.UploadAttachment(context.Background(), uploadURL, []byte("payload")))
	assert.Equal(t, "payload", string(uploaded))

	url, err := c.AttachmentURL(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "http://s3/get/xyz", url)
}
