package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
)

// metricsMiddleware records request counts and latency per route pattern.
// Unmatched requests share one label so arbitrary paths cannot grow the
// series count.
func metricsMiddleware(m *metrics.Metrics) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(route, rw.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (rw *statusWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
