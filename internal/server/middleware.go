package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderOffice = "X-Office"
	HeaderUserID = "X-User-ID"

	contextOfficeKey = "office"
	contextUserIDKey = "user_id"
)

// OfficeContext trusts the identity headers stamped by the municipal SSO
// gateway in front of this service. Requests without an office are rejected.
func (s *Server) OfficeContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		office := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderOffice)))
		if office == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextOfficeKey, office)
		if userID := strings.TrimSpace(c.GetHeader(HeaderUserID)); userID != "" {
			c.Set(contextUserIDKey, userID)
		}
		c.Next()
	}
}

func (s *Server) RequireOffice(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		office := c.GetString(contextOfficeKey)
		if err := s.authzSvc.Authorize(c.Request.Context(), office, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func requestOffice(c *gin.Context) string {
	return c.GetString(contextOfficeKey)
}
