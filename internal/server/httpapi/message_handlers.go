package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/server/services"
)

type sendMessageRequest struct {
	ToUsername    string `json:"to_username"`
	Body          string `json:"body"`
	AttachmentKey string `json:"attachment_key"`
}

// handleSendMessage creates a message. The sender is always the
// authenticated caller; a from_username in the payload is ignored.
func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	msg, err := s.messages.Send(c.Request.Context(), authenticatedUser(c), req.ToUsername, req.Body, req.AttachmentKey)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (s *Server) handleGetMessage(c *gin.Context) {
	id, err := services.ParseMessageID(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	detail, err := s.messages.Get(c.Request.Context(), id, authenticatedUser(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": detail})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id, err := services.ParseMessageID(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	readAt, err := s.messages.MarkRead(c.Request.Context(), id, authenticatedUser(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": gin.H{"id": id, "read_at": readAt}})
}

func (s *Server) handlePresignAttachment(c *gin.Context) {
	key, url, err := s.attachments.PresignUpload(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "upload_url": url})
}

func (s *Server) handleGetAttachment(c *gin.Context) {
	id, err := services.ParseMessageID(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	key, err := s.messages.Attachment(c.Request.Context(), id, authenticatedUser(c))
	if err != nil {
		renderError(c, err)
		return
	}

	url, err := s.attachments.PresignDownload(c.Request.Context(), key)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
