package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/docxtranslate/pkg/ctxutil"
)

type tokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// Auth returns middleware that requires a valid bearer token on every
// request it wraps. Unlike the teacher's Auth (anonymous fallthrough for
// GraphQL's mixed public/private schema), this engine's only routes are
// translate and progress lookups, both of which always require a caller
// identity, so a missing or invalid token is rejected outright.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			subject, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithCallerID(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
