package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limhaneul12/kafka-gov-console/internal/security"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

const (
	SessionCookieName    = "kafgov_console_session"
	APIKeyPrefix         = "kgv_"
	ContextKeyUserID     = "auth_user_id"
	ContextKeyActor      = "auth_actor"
	ContextKeyAuthMethod = "auth_method"

	AuthMethodSession = "session"
	AuthMethodAPIKey  = "api_key"
)

// AuthMiddleware returns a Gin middleware that authenticates requests
// via either session cookie or Bearer API key.
func AuthMiddleware(authStore *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try 1: Bearer token (API key)
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token != "" {
					if authenticateAPIKey(c, authStore, token) {
						c.Next()
						return
					}
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "invalid or expired API key",
					})
					return
				}
			}
		}

		// Try 2: Session cookie
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			if authenticateSession(c, authStore, cookie) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
	}
}

// SessionOnlyMiddleware rejects requests that are not authenticated via session cookie.
// Must be used after AuthMiddleware.
func SessionOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method, exists := c.Get(ContextKeyAuthMethod)
		if !exists || method != AuthMethodSession {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "this operation requires session authentication (web login)",
			})
			return
		}
		c.Next()
	}
}

// Actor returns the audit actor for the request: the session user's ID, or
// the API key name for key-authenticated requests.
func Actor(c *gin.Context) string {
	if actor := c.GetString(ContextKeyActor); actor != "" {
		return actor
	}
	return "unknown"
}

func authenticateAPIKey(c *gin.Context, authStore *store.AuthStore, token string) bool {
	keyHash := security.HashToken(token)
	apiKey, err := authStore.GetAPIKeyByHash(c.Request.Context(), keyHash)
	if err != nil || apiKey == nil {
		return false
	}
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(time.Now()) {
		return false
	}
	// Note: API Key auth intentionally does not set ContextKeyUserID.
	// The api_keys table has no user association, and in the single-admin model
	// there is no need to look up the admin user for API key requests.
	c.Set(ContextKeyAuthMethod, AuthMethodAPIKey)
	c.Set(ContextKeyActor, "key:"+apiKey.Name)
	// Update last_used_at asynchronously
	go func() {
		_ = authStore.UpdateAPIKeyLastUsed(context.Background(), apiKey.ID, time.Now())
	}()
	return true
}

func authenticateSession(c *gin.Context, authStore *store.AuthStore, token string) bool {
	tokenHash := security.HashToken(token)
	session, err := authStore.GetSession(c.Request.Context(), tokenHash)
	if err != nil || session == nil {
		return false
	}
	if session.ExpiresAt.Before(time.Now()) {
		go func() {
			_ = authStore.DeleteSession(context.Background(), tokenHash)
		}()
		return false
	}
	c.Set(ContextKeyUserID, session.UserID)
	c.Set(ContextKeyAuthMethod, AuthMethodSession)
	if user, err := authStore.GetAdminByID(c.Request.Context(), session.UserID); err == nil && user != nil {
		c.Set(ContextKeyActor, user.Username)
	}
	return true
}
