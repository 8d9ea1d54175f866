package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/amanihealth/amani/pkg/slogx"
)

// TokenVerifier validates a bearer token and returns the subject (user id)
// and role it was minted for.
type TokenVerifier interface {
	VerifyToken(token string) (subject, role string, err error)
}

// AuthnMiddleware rejects requests without a valid bearer token and injects
// the authenticated user id into the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			subject, role, err := v.VerifyToken(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerError(w, "token invalid or expired")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, subject)
			ctx = context.WithValue(ctx, CtxKeyRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
