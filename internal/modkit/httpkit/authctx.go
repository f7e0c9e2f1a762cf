package httpkit

import (
	"net/http"
	"strings"

	perr "leadscore/internal/platform/errors"
	pnet "leadscore/internal/platform/net"
)

// Principal returns the authenticated caller from the request context
func Principal(r *http.Request) (pnet.Principal, error) {
	p, ok := pnet.PrincipalFrom(r.Context())
	if !ok || p.UserID == "" {
		return pnet.Principal{}, perr.Unauthorizedf("missing bearer token")
	}
	return p, nil
}

// MustPrincipal returns the caller or panics
// only use on routes behind Protected
func MustPrincipal(r *http.Request) pnet.Principal {
	p, err := Principal(r)
	if err != nil {
		panic(err)
	}
	return p
}

// JWT returns the raw bearer token from the Authorization header
// the scheme is matched case insensitively
func JWT(r *http.Request) (string, error) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
