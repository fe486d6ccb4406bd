package middleware

import (
	"net/http"
	"time"
)

// unmatchedRoute labels requests no route claimed, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// RequestObserver receives one observation per served request
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RouteFunc maps a request to its route pattern, "" when nothing matches
type RouteFunc func(r *http.Request) string

// Metrics middleware reports method, route, status and latency to obs
func Metrics(obs RequestObserver, route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			pattern := route(r)
			if pattern == "" {
				pattern = unmatchedRoute
			}

			next.ServeHTTP(rw, r)

			obs.ObserveRequest(r.Method, pattern, rw.statusCode, time.Since(start))
		})
	}
}
