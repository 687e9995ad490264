package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"itinera/pkg/utils"
)

const sessionIDKey = "session_id"

// SessionMiddleware resolves the planning session from the bearer token.
func SessionMiddleware(signer *utils.SessionSigner) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := signer.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
