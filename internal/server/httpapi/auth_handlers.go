package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkurochkin/courier/internal/common"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	token, err := s.users.Register(c.Request.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "registration failed", "username", req.Username)
		renderError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "username", req.Username)
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "login failed", "username", req.Username)
		renderError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user logged in", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
