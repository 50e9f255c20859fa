package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/tokenstore"

	"github.com/gin-gonic/gin"
)

// LoginPath is where the browser shell is sent when the session is gone.
const LoginPath = "/login"

// SessionMiddleware lets a request through only while the console holds a live
// session token. A missing, expired or wrong-role token is cleared and answered
// with a login redirect.
func SessionMiddleware(tokens tokenstore.Store, jwtService *jwt.Service, role string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := tokens.Get(ctx)
		if err != nil {
			log.Error("[SESSION] failed to read session token: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			c.Abort()
			return
		}
		if token == "" {
			Unauthorized(c, "Not logged in")
			return
		}

		claims, err := jwtService.Inspect(token)
		if err != nil {
			_ = tokens.Clear(ctx)
			if errors.Is(err, jwt.ErrTokenExpired) {
				Unauthorized(c, "Session expired")
			} else {
				Unauthorized(c, "Invalid session")
			}
			return
		}

		if role != "" && claims.Role != "" && !strings.EqualFold(claims.Role, role) {
			_ = tokens.Clear(ctx)
			c.JSON(http.StatusForbidden, gin.H{"error": "This account cannot use this console", "redirect": LoginPath})
			c.Abort()
			return
		}

		c.Set("user_id", claims.Identity())
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// Unauthorized aborts with the login redirect answer.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message, "redirect": LoginPath})
	c.Abort()
}
