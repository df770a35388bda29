package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/authflow/internal/auth"
	"github.com/hongminglow/authflow/internal/http/respond"
	"github.com/hongminglow/authflow/internal/metrics"
)

type claimsKey struct{}

// ClaimsFromContext returns the token claims stored by RequireBearer.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer <token>" header.
func RequireBearer(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.TokenRejectionsTotal.Inc()
			respond.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			metrics.TokenRejectionsTotal.Inc()
			respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
