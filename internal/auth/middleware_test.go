package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(m *Manager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Require(m)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	r.GET("/protected/:session_id", handlers...)
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success   bool   `json:"success"`
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.ErrorCode
}

func TestRequireMissingToken(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")
	w := doGet(protectedRouter(m), "/protected/s-1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestRequireValidToken(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")
	token, err := m.Issue("i-1", RoleInstructor, time.Hour)
	require.NoError(t, err)

	w := doGet(protectedRouter(m), "/protected/s-1", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "i-1")
}

func TestRequireExpiredToken(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")
	token, err := m.Issue("i-1", RoleInstructor, -time.Second)
	require.NoError(t, err)

	w := doGet(protectedRouter(m), "/protected/s-1", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireInstructorRejectsStudents(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")
	r := protectedRouter(m, RequireInstructor())

	studentToken, err := m.Issue("s-9", RoleStudent, time.Hour)
	require.NoError(t, err)
	w := doGet(r, "/protected/s-1", studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	instructorToken, err := m.Issue("i-1", RoleInstructor, time.Hour)
	require.NoError(t, err)
	w = doGet(r, "/protected/s-1", instructorToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOwnership(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")

	registry := NewOwnershipRegistry()
	registry.Register(ResourceSession, func(_ context.Context, instructorID, resourceID string) (bool, error) {
		return instructorID == "i-1" && resourceID == "s-1", nil
	})

	r := protectedRouter(m, RequireInstructor(), RequireOwnership(registry, ResourceSession, "session_id"))

	owner, err := m.Issue("i-1", RoleInstructor, time.Hour)
	require.NoError(t, err)
	intruder, err := m.Issue("i-2", RoleInstructor, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/protected/s-1", owner).Code)

	w := doGet(r, "/protected/s-1", intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))
}

func TestRequireOwnershipClassAssignment(t *testing.T) {
	m := NewManager("classtrack", "test-signing-key")

	registry := NewOwnershipRegistry()
	registry.Register(ResourceClass, func(_ context.Context, instructorID, classID string) (bool, error) {
		return instructorID == "i-1" && classID == "c-1", nil
	})

	r := gin.New()
	r.GET("/classes/:id/sessions",
		Require(m), RequireInstructor(), RequireOwnership(registry, ResourceClass, "id"),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"class_id": c.Param("id")}) })

	assigned, err := m.Issue("i-1", RoleInstructor, time.Hour)
	require.NoError(t, err)
	unassigned, err := m.Issue("i-2", RoleInstructor, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/classes/c-1/sessions", assigned).Code)

	w := doGet(r, "/classes/c-1/sessions", unassigned)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))
}

func TestOwnershipRegistryUnknownType(t *testing.T) {
	registry := NewOwnershipRegistry()
	_, err := registry.Check(context.Background(), "report", "i-1", "r-1")
	assert.Error(t, err)

	registry.Register("report", func(_ context.Context, _, _ string) (bool, error) {
		return false, errors.New("backend down")
	})
	_, err = registry.Check(context.Background(), "report", "i-1", "r-1")
	assert.EqualError(t, err, "backend down")
}
