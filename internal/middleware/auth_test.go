package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s stubValidator) ValidateJWT(string) (string, error) {
	return s.userID, s.err
}

func callWithAuth(t *testing.T, validator TokenValidator, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUserID string
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestAuthMiddlewarePassesUserID(t *testing.T) {
	rec, userID := callWithAuth(t, stubValidator{userID: "u1"}, "Bearer some-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", userID)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{userID: "u1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{userID: "u1"}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = callWithAuth(t, stubValidator{userID: "u1"}, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{err: fmt.Errorf("expired")}, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDWithoutValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetUserID(req.Context()))
}
