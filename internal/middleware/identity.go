package middleware

import (
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the gin context key holding the acting user id.
const UserIDKey = "user_id"

const headerUserID = "X-User-Id"

// Identity resolves the acting user id and aborts with 401 when it cannot.
// The default mode trusts the X-User-Id header as a pre-authenticated
// principal; jwt mode verifies an HMAC bearer token and uses its subject
// claim, feeding the same user-id contract downstream.
func Identity(cfg config.AuthConfig) gin.HandlerFunc {
	if cfg.Mode == config.AuthModeJWT {
		return jwtIdentity(cfg.JWTSecret)
	}
	return headerIdentity()
}

func headerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(headerUserID))
		if userID == "" {
			abortWithError(c, apperr.MissingIdentity("X-User-Id header required"))
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func jwtIdentity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperr.MissingIdentity("Authorization header is required"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, apperr.MissingIdentity("Authorization header must use Bearer token"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortWithError(c, apperr.MissingIdentity("token validation failed"))
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortWithError(c, apperr.MissingIdentity("token subject is missing"))
			return
		}

		c.Set(UserIDKey, subject)
		c.Next()
	}
}

// UserID reads the acting user id set by Identity.
func UserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

func abortWithError(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.HTTPStatus(), gin.H{"error": err})
}
