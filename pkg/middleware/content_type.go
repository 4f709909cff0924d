package middleware

import (
	"net/http"
	"strings"

	apperrors "tenniscourts/pkg/errors"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
)

// ContentTypeValidation requires application/json on write requests that
// carry a body. Bodyless POSTs such as the cancel action pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestIDFrom(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					_ = httputil.WriteError(w, apperrors.UnsupportedMediaType("Content-Type must be application/json"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}

func extractContentType(header string) string {
	mediaType, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
