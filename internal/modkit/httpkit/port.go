package httpkit

import (
	"net/http"

	perr "leadscore/internal/platform/errors"
	pnet "leadscore/internal/platform/net"
)

// TokenFunc verifies a raw bearer token and returns its principal
type TokenFunc func(token string) (pnet.Principal, error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse resolves the caller from the Authorization bearer token
// a missing header and a rejected token both answer unauthorized
func (p *Port) Parse(r *http.Request) (pnet.Principal, error) {
	raw, err := JWT(r)
	if err != nil {
		return pnet.Principal{}, err
	}
	if p == nil || p.parse == nil {
		return pnet.Principal{}, perr.Unauthorizedf("invalid bearer token")
	}
	who, err := p.parse(raw)
	if err != nil || who.UserID == "" {
		return pnet.Principal{}, perr.Unauthorizedf("invalid bearer token")
	}
	return who, nil
}
