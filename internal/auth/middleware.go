package auth

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values.
type ContextKey string

const principalKey ContextKey = "principal"

// TokenValidator resolves a bearer token to a principal.
type TokenValidator interface {
	Validate(token string) (Principal, error)
}

// Middleware rejects requests without a valid "Bearer <token>" header and
// stores the principal in the request context. onFail writes the response
// for rejected requests.
func Middleware(v TokenValidator, onFail func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				onFail(w, r, ErrUnauthenticated)
				return
			}
			p, err := v.Validate(token)
			if err != nil {
				onFail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored by Middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
