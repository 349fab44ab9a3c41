package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

const headerRequestID = "X-Request-Id"

// RequestID honors an inbound X-Request-Id, generates one otherwise, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
		}

		c.Set(RequestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
