package middleware

import (
	"crypto/subtle"
	"net/http"

	apperrors "tenniscourts/pkg/errors"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
)

// RequireBearer rejects requests whose "Authorization: Bearer" token does not
// equal token exactly.
func RequireBearer(token string, log *logger.Logger) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := httputil.BearerToken(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				log.Warn("Rejected admin request",
					"request_id", RequestIDFrom(r.Context()),
					"path", r.URL.Path,
					"token_present", got != "",
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or missing admin token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
