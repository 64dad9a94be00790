// Package httpapi is the HTTP/JSON transport of the server. It owns the
// router, the authentication middleware, and the mapping from error kinds
// to status codes. All business rules live in the services package.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkurochkin/courier/internal/logging"
	"github.com/dkurochkin/courier/internal/server/models"
)

// UserService is the slice of the user service the transport consumes.
type UserService interface {
	Register(ctx context.Context, username, password, firstName, lastName, phone string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Get(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	MessagesFrom(ctx context.Context, username string) ([]*models.Message, error)
	MessagesTo(ctx context.Context, username string) ([]*models.Message, error)
}

// MessageService is the slice of the message service the transport consumes.
type MessageService interface {
	Send(ctx context.Context, from, to, body, attachmentKey string) (*models.Message, error)
	Get(ctx context.Context, id int64, requester string) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64, requester string) (time.Time, error)
	Attachment(ctx context.Context, id int64, requester string) (string, error)
}

// AttachmentService hands out presigned URLs for attachment up/downloads.
type AttachmentService interface {
	PresignUpload(ctx context.Context) (string, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type Server struct {
	addr        string
	logger      logging.Logger
	users       UserService
	messages    MessageService
	attachments AttachmentService
	jwtSecret   []byte
}

func NewServer(addr string, l logging.Logger, us UserService, ms MessageService, as AttachmentService, secretKey string) *Server {
	return &Server{
		addr:        addr,
		logger:      l.With("module", "httpapi"),
		users:       us,
		messages:    ms,
		attachments: as,
		jwtSecret:   []byte(secretKey),
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// router wires the route table. Auth-only routes share the Authenticate
// middleware; "my own resources" routes add the correct-subject check.
func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	authed := r.Group("/", s.Authenticate())

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)

	authed.GET("/users", s.handleListUsers)
	authed.GET("/users/:username", s.handleGetUser)
	authed.GET("/users/:username/to", s.RequireSelf(), s.handleMessagesTo)
	authed.GET("/users/:username/from", s.RequireSelf(), s.handleMessagesFrom)

	authed.POST("/messages", s.handleSendMessage)
	authed.GET("/messages/:id", s.handleGetMessage)
	authed.POST("/messages/:id/read", s.handleMarkRead)
	authed.GET("/messages/:id/attachment", s.handleGetAttachment)
	authed.POST("/attachments", s.handlePresignAttachment)

	return r
}
