package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/pkg/api"
)

// Auth checks for a valid Bearer token against static keys and the
// database. Requests carrying only X-App-Name pass through as anonymous.
// The resolved identity rides the request context for downstream
// attribution.
func Auth(repo store.Repository, staticKeys []string) gin.HandlerFunc {
	staticMap := make(map[string]bool)
	for _, k := range staticKeys {
		if k != "" {
			staticMap[k] = true
		}
	}

	return func(c *gin.Context) {
		appName := c.GetHeader("X-App-Name")
		if appName != "" {
			ctx := context.WithValue(c.Request.Context(), store.ContextKeyAppName, appName)
			c.Request = c.Request.WithContext(ctx)
		}

		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			if appName != "" {
				ctx := context.WithValue(c.Request.Context(), store.ContextKeyIdentity, api.Anonymous)
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
			_ = c.Error(api.UnauthorizedError("Missing Authorization header or X-App-Name"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(api.UnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		token := parts[1]

		if staticMap[token] {
			ctx := context.WithValue(c.Request.Context(), store.ContextKeyIdentity, api.System)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		hash := sha256.Sum256([]byte(token))
		hashedHex := hex.EncodeToString(hash[:])

		key, err := repo.APIKeys().GetByHash(c.Request.Context(), hashedHex)
		if err != nil {
			_ = c.Error(api.UnauthorizedError("Invalid API Key"))
			c.Abort()
			return
		}

		// Inject the key for downstream attribution.
		ctx := context.WithValue(c.Request.Context(), store.ContextKeyAPIKey, key)
		ctx = context.WithValue(ctx, store.ContextKeyIdentity, api.System)
		c.Request = c.Request.WithContext(ctx)

		// Update last used timestamp (async)
		go func() {
			_ = repo.APIKeys().UpdateUsage(context.Background(), key.ID)
		}()

		c.Next()
	}
}
