package handlers

import (
	"log"

	"taskboard/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondData wraps successful payloads in the {data: ...} envelope.
func respondData(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"data": payload})
}

// respondError maps any error to its tagged variant and writes the
// {error: {code, message, details?}} envelope. Unclassified errors are
// logged and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
}
