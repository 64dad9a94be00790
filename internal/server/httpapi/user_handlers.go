package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkurochkin/courier/internal/server/models"
)

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles})
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleMessagesTo(c *gin.Context) {
	msgs, err := s.users.MessagesTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": emptyIfNil(msgs)})
}

func (s *Server) handleMessagesFrom(c *gin.Context) {
	msgs, err := s.users.MessagesFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": emptyIfNil(msgs)})
}

// emptyIfNil keeps empty lists rendering as [] rather than null.
func emptyIfNil(msgs []*models.Message) []*models.Message {
	if msgs == nil {
		return []*models.Message{}
	}
	return msgs
}
