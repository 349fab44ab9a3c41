package middleware

import (
	"log"

	"taskboard/internal/apperr"

	"github.com/gin-gonic/gin"
)

// RecoveryWithLog converts panics into the 500 error envelope without
// leaking internal detail to the caller.
func RecoveryWithLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get(RequestIDKey)
				log.Printf("panic recovered on %s %s (request_id=%v): %v", c.Request.Method, c.Request.URL.Path, requestID, r)
				abortWithError(c, apperr.Internal("internal server error"))
			}
		}()
		c.Next()
	}
}
