package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/server/auth"
)

// usernameKey is the gin context key under which Authenticate stores the
// verified token subject.
const usernameKey = "auth_username"

// Authenticate requires a valid bearer token on the request. The three
// failure modes stay distinguishable in the response body (missing token,
// malformed token, invalid signature) while all map to 401. Verification
// is stateless; every request is checked independently.
func (s *Server) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			renderError(c, common.ErrMissingToken)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			renderError(c, common.ErrMalformedToken)
			return
		}

		claims, err := auth.ParseToken(tokenString, s.jwtSecret)
		if err != nil {
			renderError(c, err)
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequireSelf requires that the authenticated user equals the :username
// path parameter. Used for "my own resources" endpoints.
func (s *Server) RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticatedUser(c) != c.Param("username") {
			renderError(c, common.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// authenticatedUser returns the verified token subject stored by
// Authenticate, or "" when the middleware has not run.
func authenticatedUser(c *gin.Context) string {
	name, _ := c.Get(usernameKey)
	username, _ := name.(string)
	return username
}
