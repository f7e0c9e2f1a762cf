// Package module wires the per-session dashboard into the API
package module

import (
	"leadscore/internal/core/dashboard"
	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/services/api/dashboard/domain"
	dashhttp "leadscore/internal/services/api/dashboard/http"
	"leadscore/internal/services/api/dashboard/service"
)

// Ports exposed by the dashboard module
type Ports struct {
	Service domain.ServicePort
}

// Module implements the dashboard module
type Module struct {
	modkit.Base
}

// New constructs the dashboard module over deps.Hub
// without a hub the module serves an empty, feedless one
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)

	hub := deps.Hub
	if hub == nil {
		hub = dashboard.NewHub(dashboard.WithLocation(o.Location))
	}
	svcOpts := []service.Option{service.WithLocation(o.Location)}
	if deps.Metrics != nil {
		svcOpts = append(svcOpts, service.WithMetrics(deps.Metrics))
	}
	svc := service.New(hub, svcOpts...)

	return &Module{Base: modkit.NewBase([]modkit.Option{
		modkit.WithName("dashboard"),
		modkit.WithPrefix("/dashboard"),
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r httpkit.Router) {
			httpkit.Protected(r, deps.Auth, func(pr httpkit.Router) {
				dashhttp.Register(pr, svc)
			})
		}),
	}, opts...)}
}
