package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/dbx"
	"github.com/dkurochkin/courier/internal/server/models"
	"github.com/dkurochkin/courier/internal/server/repositories/messages"
	"github.com/dkurochkin/courier/internal/server/repositories/users"
)

// ---- in-memory fakes ----

type fakeUsersRepo struct {
	order []string
	byID  map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byID[user.Username]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUsernameTaken, user.Username)
	}
	user.JoinedAt = time.Now()
	f.byID[user.Username] = user
	f.order = append(f.order, user.Username)
	return user, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byID[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, username)
	}
	return u, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	var result []*models.User
	for _, name := range f.order {
		result = append(result, f.byID[name])
	}
	return result, nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, username string) (time.Time, error) {
	u, ok := f.byID[username]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", common.ErrNotFound, username)
	}
	now := time.Now()
	u.LastLoginAt = &now
	return now, nil
}

type fakeMessagesRepo struct {
	nextID int64
	byID   map[int64]*models.Message
}

func newFakeMessagesRepo() *fakeMessagesRepo {
	return &fakeMessagesRepo{byID: map[int64]*models.Message{}}
}

func (f *fakeMessagesRepo) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	f.nextID++
	msg.ID = f.nextID
	msg.SentAt = time.Now()
	f.byID[msg.ID] = msg
	return msg, nil
}

func (f *fakeMessagesRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", common.ErrNotFound, id)
	}
	return m, nil
}

func (f *fakeMessagesRepo) MarkRead(ctx context.Context, id int64) (time.Time, error) {
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

func (f *fakeMessagesRepo) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	return f.filter(func(m *models.Message) bool { return m.FromUsername == username }), nil
}

func (f *fakeMessagesRepo) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	return f.filter(func(m *models.Message) bool { return m.ToUsername == username }), nil
}

func (f *fakeMessagesRepo) filter(keep func(*models.Message) bool) []*models.Message {
	var result []*models.Message
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.byID[id]; ok && keep(m) {
			result = append(result, m)
		}
	}
	return result
}

type fakeRepoManager struct {
	usersRepo    *fakeUsersRepo
	messagesRepo *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		usersRepo:    newFakeUsersRepo(),
		messagesRepo: newFakeMessagesRepo(),
	}
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return f.usersRepo }

func (f *fakeRepoManager) Messages(db dbx.DBTX) messages.Repository { return f.messagesRepo }
