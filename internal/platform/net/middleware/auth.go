package middleware

import (
	"net/http"

	"leadscore/internal/platform/logger"
	pnet "leadscore/internal/platform/net"
)

// AuthPort resolves the caller of a request, implemented by the auth service token verifier
type AuthPort interface {
	Parse(r *http.Request) (pnet.Principal, error)
}

// Auth rejects requests the port cannot resolve and attaches the principal otherwise
// a nil port lets every request through anonymously
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			who, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithPrincipal(r.Context(), who)
			ctx = logger.WithUser(ctx, who.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
