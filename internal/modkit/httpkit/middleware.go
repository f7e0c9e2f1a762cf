package httpkit

import (
	"net/http"
	"time"

	phttp "leadscore/internal/platform/net/http"
	"leadscore/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout time.Duration
	Slow    time.Duration
	CORS    middleware.CORSOptions

	// Throttle caps in flight requests, 0 disables it
	Throttle int

	// Extra runs after the access log, eg request metrics
	Extra []func(http.Handler) http.Handler

	// Quiet lists paths the access log skips
	Quiet []string
}

// CommonStack returns the middleware chain mounted ahead of every API module
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	base := middleware.Defaults(o.Timeout)

	out := []func(http.Handler) http.Handler{
		base[0], // real ip
		base[1], // request id
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow, Skip: o.Quiet}),
		middleware.RecoverJSON(phttp.JSON),
		middleware.CORS(o.CORS),
	}
	out = append(out, o.Extra...)
	out = append(out, middleware.Throttle(o.Throttle, o.Throttle*2, 5*time.Second))
	return append(out, base[2:]...)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
