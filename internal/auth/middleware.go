package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyClaims = "auth_claims"

// ClaimsFromContext returns the claims set by the middleware. ok is false
// for anonymous requests.
func ClaimsFromContext(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func verify(c *gin.Context, tm *TokenManager) (Claims, bool) {
	raw := bearerToken(c)
	if raw == "" {
		return Claims{}, false
	}
	claims, err := tm.Verify(raw)
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}

// Optional attaches claims when a valid bearer token is present and lets
// the request through either way. Question and answer submission accept
// guests, so they use this.
func Optional(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := verify(c, tm); ok {
			c.Set(contextKeyClaims, claims)
		}
		c.Next()
	}
}

// Require rejects requests without a valid bearer token.
func Require(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, tm)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry is_admin.
func RequireAdmin(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, tm)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not permitted"})
			return
		}
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}
