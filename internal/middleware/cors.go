package middleware

import (
	"net/http"
	"strings"
)

// CORS allows the single configured frontend origin, with credentials, and short-circuits
// preflight OPTIONS requests. Other origins receive no Access-Control headers.
func CORS(allowedOrigin string, next http.Handler) http.Handler {
	allowed := strings.ToLower(strings.TrimRight(allowedOrigin, "/"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Add("Vary", "Origin")
			if strings.ToLower(origin) == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
