// README: Firebase ID-token middleware; stores the caller identity on the gin context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfare/internal/infra"
)

const (
	ctxCallerUID   = "callerUID"
	ctxCallerEmail = "callerEmail"
)

// Auth rejects requests without a valid bearer token with 401.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := verify(c, verifier)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		setCaller(c, token)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets anonymous requests through.
func OptionalAuth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := verify(c, verifier); ok {
			setCaller(c, token)
		}
		c.Next()
	}
}

func verify(c *gin.Context, verifier infra.TokenVerifier) (*infra.FirebaseToken, bool) {
	if verifier == nil {
		return nil, false
	}
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return nil, false
	}
	token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
	if err != nil || token == nil || token.UID == "" {
		return nil, false
	}
	return token, true
}

func setCaller(c *gin.Context, token *infra.FirebaseToken) {
	c.Set(ctxCallerUID, token.UID)
	c.Set(ctxCallerEmail, token.Email())
}

// CallerUID returns the verified uid, or "" for anonymous requests.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxCallerUID)
}

func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxCallerEmail)
}
