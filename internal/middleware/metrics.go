package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hongminglow/authflow/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched mux pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		// ServeMux fills in Pattern on the way through; unmatched paths stay empty.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
