package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"findmyspot/models"
	"findmyspot/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the authenticated uid.
const UserIDKey = "userID"

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies the bearer ID token and stores the uid in the
// context. Verified tokens are cached in redis by hash until they expire;
// a nil or failing cache falls back to verification.
func FirebaseAuthMiddleware(verifier TokenVerifier, authCache *redis.Client, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		tokenString, ok := utils.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "not_authenticated", "Missing or invalid Authorization header")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
		if authCache != nil {
			uid, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && uid != "" {
				c.Set(UserIDKey, uid)
				c.Next()
				return
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				logger.Warn("auth cache unavailable, verifying token", zap.Error(err))
			}
		}

		token, err := verifier.VerifyIDToken(ctx, tokenString)
		if err != nil || token == nil || token.UID == "" {
			logger.Info("rejected id token", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "not_authenticated", "Invalid or expired token")
			return
		}

		if authCache != nil {
			ttl := utils.AuthCacheTTL
			if left := time.Until(time.Unix(token.Expires, 0)); left < ttl {
				ttl = left
			}
			if ttl > 0 {
				if err := authCache.Set(ctx, cacheKey, token.UID, ttl).Err(); err != nil {
					logger.Warn("failed to cache verified token", zap.Error(err))
				}
			}
		}

		c.Set(UserIDKey, token.UID)
		c.Next()
	}
}

// CurrentUser returns the authenticated uid, or models.ErrNotAuthenticated.
func CurrentUser(c *gin.Context) (string, error) {
	uid := c.GetString(UserIDKey)
	if uid == "" {
		return "", models.ErrNotAuthenticated
	}
	return uid, nil
}
