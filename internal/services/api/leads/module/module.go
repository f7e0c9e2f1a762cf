// Package module wires lead intake into the API using modkit
package module

import (
	"leadscore/internal/adapters/feed/pgfeed"
	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/services/api/leads/domain"
	leadshttp "leadscore/internal/services/api/leads/http"
	"leadscore/internal/services/api/leads/repo"
	"leadscore/internal/services/api/leads/service"
)

// Ports exposed by the leads module
type Ports struct {
	Service domain.ServicePort
	// Loader reads the full snapshot for the postgres dashboard feed
	Loader pgfeed.Loader
}

// Module implements the leads module
type Module struct {
	modkit.Base
}

// New constructs the leads module
// leads live in postgres when it is wired, otherwise in memory behind deps.Leads
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)

	svcOpts := []service.Option{service.WithMirror(deps.CH), service.WithEvents(deps.Events)}
	if deps.Metrics != nil {
		svcOpts = append(svcOpts, service.WithMetrics(deps.Metrics))
	}
	svc := service.New(storeFor(deps, o), service.Config{
		DefaultLimit: o.ListLimit,
		MirrorTable:  o.MirrorTable,
	}, svcOpts...)

	ports := Ports{Service: svc, Loader: svc.Snapshot}
	return &Module{Base: modkit.NewBase([]modkit.Option{
		modkit.WithName("leads"),
		modkit.WithPrefix("/leads"),
		modkit.WithPorts(ports),
		modkit.WithRegister(func(r httpkit.Router) {
			httpkit.Protected(r, deps.Auth, func(pr httpkit.Router) {
				leadshttp.Register(pr, svc)
			})
		}),
	}, opts...)}
}

func storeFor(deps modkit.Deps, o Options) domain.Store {
	if deps.HasPG() {
		return repo.NewPG(deps.PG, o.StatementTimeout)
	}
	var onChange func([]domain.Lead)
	if deps.Leads != nil {
		onChange = func(ls []domain.Lead) { deps.Leads.Publish(domain.Records(ls)) }
	}
	return repo.NewMemory(onChange)
}
