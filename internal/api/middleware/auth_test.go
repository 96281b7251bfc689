package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthPutsUserIDIntoContext(t *testing.T) {
	var gotID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	req.Header.Set("X-User-ID", "42")
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, int64(42), gotID)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInvalidHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	})

	for _, raw := range []string{"abc", "-5", "0", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		req.Header.Set("X-User-ID", raw)
		rec := httptest.NewRecorder()

		Auth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q must be rejected", raw)
	}
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserID(req.Context())
	assert.False(t, ok)
}
