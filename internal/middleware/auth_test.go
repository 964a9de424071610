package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawforum/internal/models"
)

type fakeSessions struct {
	sessions map[string]*models.Session
}

func (f *fakeSessions) CreateSession(ctx context.Context, session *models.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessions) DeleteOtherSessions(ctx context.Context, userID int64, keepID string) error {
	return nil
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{sessions: map[string]*models.Session{
		"valid":   {ID: "valid", UserID: 42, ExpiresAt: time.Now().Add(time.Hour)},
		"expired": {ID: "expired", UserID: 42, ExpiresAt: time.Now().Add(-time.Hour)},
	}}

	router := gin.New()
	router.GET("/me", Auth(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})

	call := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := call("valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":42}`, w.Body.String())

	w = call("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call("unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call("expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
