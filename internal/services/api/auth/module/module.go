// Package module wires signup, verification and login into the API
package module

import (
	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/services/api/auth/domain"
	authhttp "leadscore/internal/services/api/auth/http"
	"leadscore/internal/services/api/auth/repo"
	"leadscore/internal/services/api/auth/service"
)

// Ports exposed by the auth module
type Ports struct {
	Service domain.ServicePort
	Tokens  domain.TokenPort
	// Verifier guards protected routes of other modules
	Verifier *httpkit.Port
}

// Module implements the auth module
type Module struct {
	modkit.Base
}

// New constructs the auth module
// users live in postgres when wired, pending registrations in redis when wired
// codes go out through deps.Mailer when one is set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)

	signer, err := service.NewSigner(o.Secret, o.Issuer, o.TokenTTL)
	if err != nil {
		panic(err)
	}

	var users domain.Users = repo.NewMemoryUsers()
	if deps.HasPG() {
		users = repo.NewUsersBinder().Bind(deps.PG)
	}
	var pending domain.PendingStore = repo.NewMemoryPending(nil)
	if deps.Redis != nil {
		pending = repo.NewRedisPending(deps.Redis)
	}

	var svcOpts []service.Option
	if deps.Metrics != nil {
		svcOpts = append(svcOpts, service.WithMetrics(deps.Metrics))
	}
	if deps.Mailer != nil {
		svcOpts = append(svcOpts, service.WithMailer(deps.Mailer))
	}
	svc := service.New(users, pending, signer, service.Config{
		CodeTTL:     o.CodeTTL,
		BcryptCost:  o.BcryptCost,
		MailTimeout: o.MailTimeout,
	}, svcOpts...)

	ports := Ports{
		Service:  svc,
		Tokens:   signer,
		Verifier: httpkit.NewPortFunc(signer.Parse),
	}
	return &Module{Base: modkit.NewBase([]modkit.Option{
		modkit.WithName("auth"),
		modkit.WithPrefix("/auth"),
		modkit.WithPorts(ports),
		modkit.WithRegister(func(r httpkit.Router) { authhttp.Register(r, svc) }),
	}, opts...)}
}
