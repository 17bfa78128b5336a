// README: Bearer token middleware for trip routes. Verified callers are stored as an auth.Session.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vtc/internal/auth"
	"vtc/internal/infra"
)

const sessionKey = "vtc.session"

// Auth rejects requests without a valid Firebase ID token.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		session, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || !session.Valid() {
			Logger(c).Warn("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// Session returns the caller stored by Auth.
func Session(c *gin.Context) (auth.Session, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, auth.ErrNoSession
	}
	s, ok := v.(auth.Session)
	if !ok || !s.Valid() {
		return auth.Session{}, auth.ErrNoSession
	}
	return s, nil
}
