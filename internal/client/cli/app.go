// Package cli is the interactive Courier client: a read-eval-print loop
// over the HTTP API with separate command sets for anonymous and
// authenticated sessions.
package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/dkurochkin/courier/internal/client/api"
	"github.com/dkurochkin/courier/internal/client/config"
)

// apiClient is the slice of the API client the commands consume. Tests
// provide a fake.
type apiClient interface {
	Register(ctx context.Context, username, password, firstName, lastName, phone string) error
	Login(ctx context.Context, username, password string) error
	Logout()
	IsAuthenticated() bool

	Users(ctx context.Context) ([]api.Profile, error)
	Inbox(ctx context.Context, username string) ([]api.Message, error)
	Outbox(ctx context.Context, username string) ([]api.Message, error)

	Send(ctx context.Context, to, body, attachmentKey string) (*api.Message, error)
	Show(ctx context.Context, id int64) (*api.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (time.Time, error)

	PresignUpload(ctx context.Context) (string, string, error)
	UploadAttachment(ctx context.Context, url string, data []byte) error
	AttachmentURL(ctx context.Context, id int64) (string, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.New(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
