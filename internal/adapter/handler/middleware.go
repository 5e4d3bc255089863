package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/core/service"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token to an Identity once per request
// and stores it in the gin context. Handlers pass it by value into the
// services; nothing downstream reads ambient security state.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		ident, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(domain.Identity)
	return ident
}
