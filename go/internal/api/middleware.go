package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Header names used by the session layer in front of this service.
const (
	CSRFTokenHeader = "X-CSRFToken"
	UserHeader      = "X-Rental-User"
)

// requestUser returns the authenticated username, empty for anonymous
// requesters.
func requestUser(r *http.Request) string {
	return r.Header.Get(UserHeader)
}

// requireCSRF rejects mutating requests whose CSRF token does not match
// the configured one. Safe methods pass through untouched.
func (s *Service) requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
			return
		}

		token := r.Header.Get(CSRFTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.csrfToken)) != 1 {
			log.Warn().Str("path", r.URL.Path).Str("method", r.Method).Msg("rejected request with bad CSRF token")
			writeJSON(w, http.StatusForbidden, statusResponse{Status: "error", Message: "CSRF token missing or invalid"})
			return
		}
		next(w, r)
	}
}
