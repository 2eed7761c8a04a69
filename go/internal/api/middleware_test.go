package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func csrfTestHandler(t *testing.T) (http.HandlerFunc, *bool) {
	called := false
	s := &Service{csrfToken: "secret-token"}
	handler := s.requireCSRF(func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeSuccess(w)
	})
	return handler, &called
}

func TestRequireCSRFAllowsSafeMethods(t *testing.T) {
	handler, called := csrfTestHandler(t)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/get-games/", nil))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCSRFRejectsMissingToken(t *testing.T) {
	handler, called := csrfTestHandler(t)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/game", nil))

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRequireCSRFRejectsWrongToken(t *testing.T) {
	handler, called := csrfTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/game", nil)
	req.Header.Set(CSRFTokenHeader, "wrong-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCSRFAcceptsValidToken(t *testing.T) {
	handler, called := csrfTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/game", nil)
	req.Header.Set(CSRFTokenHeader, "secret-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/get-games/", nil)
	assert.Equal(t, "", requestUser(req))

	req.Header.Set(UserHeader, "admin1")
	assert.Equal(t, "admin1", requestUser(req))
}
