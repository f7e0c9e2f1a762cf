// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"time"

	"leadscore/internal/core/version"
	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/platform/store"

	metahttp "leadscore/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
}

// New constructs a meta module probing the backends wired into deps
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	hd := metahttp.Deps{
		ServiceName: version.ServiceName,
		StartedAt:   time.Now(),
		Checks:      checks(deps),
		Expected:    []string{"pg", "ch", "redis"},
	}
	return &Module{Base: modkit.NewBase([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRegister(func(r httpkit.Router) { metahttp.Register(r, hd) }),
	}, opts...)}
}

func checks(deps modkit.Deps) map[string]metahttp.PingFunc {
	out := map[string]metahttp.PingFunc{}
	if p, ok := deps.PG.(store.Pinger); ok {
		out["pg"] = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		out["ch"] = p.Ping
	}
	if deps.Redis != nil {
		out["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	return out
}
