package apperr_test

import (
	"errors"
	"net/http"
	"testing"

	"taskboard/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *apperr.Error
		want int
	}{
		{"validation", apperr.Validation("bad payload", nil), http.StatusBadRequest},
		{"missing identity", apperr.MissingIdentity("X-User-Id header required"), http.StatusUnauthorized},
		{"not found", apperr.NotFound("task not found"), http.StatusNotFound},
		{"invalid transition", apperr.InvalidTransition("TODO", "DONE"), http.StatusUnprocessableEntity},
		{"rate limited", apperr.RateLimited("slow down"), http.StatusTooManyRequests},
		{"internal", apperr.Internal("boom"), http.StatusInternalServerError},
		{"unknown code", &apperr.Error{Code: "MYSTERY"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := apperr.InvalidTransition("TODO", "DONE")

	assert.Equal(t, apperr.CodeInvalidTransition, err.Code)
	assert.Equal(t, "invalid transition TODO -> DONE", err.Message)
	assert.Equal(t, "TODO", err.Details["from"])
	assert.Equal(t, "DONE", err.Details["to"])
}

func TestFromNormalizesUnknownErrors(t *testing.T) {
	err := apperr.From(errors.New("sql: connection refused"))

	assert.Equal(t, apperr.CodeInternal, err.Code)
	assert.Equal(t, "unexpected error", err.Message)
}

func TestFromKeepsTaggedVariants(t *testing.T) {
	original := apperr.NotFound("task not found")

	wrapped := apperr.From(original)

	assert.Same(t, original, wrapped)
}
