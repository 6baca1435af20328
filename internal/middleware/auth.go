package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/session"
)

// AccountIDKey is the gin context key carrying the authenticated
// account id after RequireSession has run.
const AccountIDKey = "accountID"

// RequireSession rejects requests without a valid session cookie and
// attaches the session's account id to the gin context.
func RequireSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		sess, err := store.Get(c.Request.Context(), cookie.Value)
		if err != nil || sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			_ = store.Delete(c.Request.Context(), cookie.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(AccountIDKey, sess.AccountID)
		c.Next()
	}
}
