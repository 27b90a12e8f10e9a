package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestSuccessEnvelope(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		OK(c, "done", gin.H{"value": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "done", env.Message)
	assert.Empty(t, env.ErrorCode)
	assert.NotNil(t, env.Data)

	_, err := time.Parse(time.RFC3339, env.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC3339")
}

func TestErrorEnvelope(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		Fail(c, NotFound("holiday"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)
	assert.Equal(t, "holiday not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestUnknownErrorsMapToInternal(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		Fail(c, errors.New("pq: connection reset"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.ErrorCode)
	assert.Equal(t, "Internal server error", env.Message, "internal cause must not leak")
}

func TestWrappedErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Forbidden("not yours"))
	apiErr := AsError(wrapped)

	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestErrorStatuses(t *testing.T) {
	cases := []struct {
		err    *Error
		code   string
		status int
	}{
		{NotFound("x"), "NOT_FOUND", http.StatusNotFound},
		{Unauthorized(""), "UNAUTHORIZED", http.StatusUnauthorized},
		{Forbidden(""), "FORBIDDEN", http.StatusForbidden},
		{ValidationFailed("", nil), "VALIDATION_FAILED", http.StatusUnprocessableEntity},
		{Protected("nope"), "PROTECTED_RESOURCE", http.StatusForbidden},
		{RateLimited(30), "RATE_LIMITED", http.StatusTooManyRequests},
		{Internal(), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	apiErr := RateLimited(42)
	details, ok := apiErr.Details.(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(42), details["retry_after"])
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	first := NewPagination(1, 20, 45)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := NewPagination(3, 20, 45)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	empty := NewPagination(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestPaginatedEnvelope(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		Paginated(c, "page", []int{1, 2, 3}, NewPagination(1, 3, 9))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.TotalPages)
}
