package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/dbx"
	"github.com/dkurochkin/courier/internal/logging"
	"github.com/dkurochkin/courier/internal/server/config"
	"github.com/dkurochkin/courier/internal/server/models"
	"github.com/dkurochkin/courier/internal/server/repositories/messages"
	"github.com/dkurochkin/courier/internal/server/repositories/users"
	"github.com/dkurochkin/courier/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

// ---- in-memory repositories ----

type memUsersRepo struct {
	order []string
	byID  map[string]*models.User
}

func (f *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byID[user.Username]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUsernameTaken, user.Username)
	}
	user.JoinedAt = time.Now()
	f.byID[user.Username] = user
	f.order = append(f.order, user.Username)
	return user, nil
}

func (f *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byID[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, username)
	}
	return u, nil
}

func (f *memUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	var result []*models.User
	for _, name := range f.order {
		result = append(result, f.byID[name])
	}
	return result, nil
}

func (f *memUsersRepo) UpdateLastLogin(ctx context.Context, username string) (time.Time, error) {
	u, ok := f.byID[username]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", common.ErrNotFound, username)
	}
	now := time.Now()
	u.LastLoginAt = &now
	return now, nil
}

type memMessagesRepo struct {
	nextID int64
	byID   map[int64]*models.Message
}

func (f *memMessagesRepo) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	f.nextID++
	msg.ID = f.nextID
	msg.SentAt = time.Now()
	f.byID[msg.ID] = msg
	return msg, nil
}

func (f *memMessagesRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", common.ErrNotFound, id)
	}
	return m, nil
}

func (f *memMessagesRepo) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	m, ok := f.byID[id]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %d", common.ErrNotFound, id)
	}
	if m.ReadAt == nil {
		now := time.Now()
		m.ReadAt = &now
	}
	return *m.ReadAt, nil
}

func (f *memMessagesRepo) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	var result []*models.Message
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.byID[id]; ok && m.FromUsername == username {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *memMessagesRepo) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	var result []*models.Message
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.byID[id]; ok && m.ToUsername == username {
			result = append(result, m)
		}
	}
	return result, nil
}

type memRepoManager struct {
	usersRepo    *memUsersRepo
	messagesRepo *memMessagesRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		usersRepo:    &memUsersRepo{byID: map[string]*models.User{}},
		messagesRepo: &memMessagesRepo{byID: map[int64]*models.Message{}},
	}
}

func (f *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *memRepoManager) Users(db dbx.DBTX) users.Repository                  { return f.usersRepo }
func (f *memRepoManager) Messages(db dbx.DBTX) messages.Repository            { return f.messagesRepo }

// ---- fake attachment service ----

type fakeAttachments struct {
	key string
	url string
	err error
}

func (f *fakeAttachments) PresignUpload(ctx context.Context) (string, string, error) {
	return f.key, f.url + "/put/" + f.key, f.err
}

func (f *fakeAttachments) PresignDownload(ctx context.Context, key string) (string, error) {
	return f.url + "/get/" + key, f.err
}

// ---- server under test ----

type testEnv struct {
	server *Server
	router http.Handler
	repos  *memRepoManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m := newMemRepoManager()
	cfg := &config.Config{SecretKey: testSecret, BcryptCost: bcrypt.MinCost}

	us := services.NewUserService(nil, m, cfg)
	ms := services.NewMessageService(nil, m)
	as := &fakeAttachments{key: "attachments/2026/8/3/abc", url: "https://s3.local"}

	srv := NewServer(":0", nopLogger{}, us, ms, as, testSecret)
	return &testEnv{server: srv, router: srv.router(), repos: m}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns its token.
func (e *testEnv) register(t *testing.T, username, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
