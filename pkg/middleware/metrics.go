package middleware

import (
	"net/http"
	"time"

	"tenniscourts/pkg/metrics"
)

// Metrics records request count and latency under the registered route
// pattern. A nil collector disables it.
func Metrics(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			m.ObserveHTTP(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}
