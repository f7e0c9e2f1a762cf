// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"leadscore/internal/adapters/feed/memfeed"
	"leadscore/internal/adapters/feed/pgfeed"
	"leadscore/internal/core/dashboard"
	"leadscore/internal/platform/config"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/metrics"
	phttp "leadscore/internal/platform/net/http"
	"leadscore/internal/platform/net/middleware"
	"leadscore/internal/platform/store"
	str "leadscore/internal/platform/strings"

	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/modkit/module"
	"leadscore/internal/modkit/swaggerkit"

	authmod "leadscore/internal/services/api/auth/module"
	dashmod "leadscore/internal/services/api/dashboard/module"
	leadsmod "leadscore/internal/services/api/leads/module"
	metamod "leadscore/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the root view, modules read their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool

	// Hub serves dashboards; nil builds one in the zone of DASHBOARD_TZ
	Hub *dashboard.Hub
	// Feed overrides the dashboard feed, eg a file feed
	Feed dashboard.Feed
	// Leads receives writes when postgres is disabled and feeds the hub in that case
	Leads *memfeed.Broadcaster
	// Events publishes lead events, nil disables them
	Events modkit.Publisher
	// Mailer sends verification codes, nil leaves them in the log
	Mailer modkit.Mailer
}

// Mounted reports what Mount attached, Detach releases the dashboard feed and stops the idle sweep
type Mounted struct {
	Modules []module.Module
	Detach  func()
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) Mounted {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}

	// shared deps for modules
	deps := modkit.FromStore(*log, opt.Config, opt.Store)
	deps.Metrics = opt.Metrics
	deps.Events = opt.Events
	deps.Mailer = opt.Mailer
	deps.Hub = opt.Hub
	if deps.Hub == nil {
		deps.Hub = dashboard.NewHub(
			dashboard.WithLocation(dashmod.FromConfig(opt.Config).Location),
			dashboard.WithObserver(opt.Metrics),
		)
	}
	deps.Leads = opt.Leads
	if deps.Leads == nil && !deps.HasPG() {
		deps.Leads = memfeed.New()
	}

	// auth first, its verifier guards the other modules
	auth := authmod.New(deps)
	deps.Auth = module.MustPortsOf[authmod.Ports](auth).Verifier

	leadsMod := leadsmod.New(deps)
	mods := []module.Module{
		metamod.New(deps),
		auth,
		leadsMod,
		dashmod.New(deps),
	}

	detach := func() {}
	if feed := feedFor(opt, deps, module.MustPortsOf[leadsmod.Ports](leadsMod).Loader); feed != nil {
		detach = deps.Hub.Attach(feed)
	}
	if dopt := dashmod.FromConfig(opt.Config); dopt.SessionIdle > 0 {
		unfeed := detach
		stopSweep := deps.Hub.Sweep(dopt.SweepEvery(), dopt.SessionIdle, func(evicted, left int) {
			opt.Metrics.Sessions(left)
			log.Debug().Int("evicted", evicted).Int("sessions", left).Msg("idle dashboard sessions evicted")
		})
		detach = func() {
			stopSweep()
			unfeed()
		}
	}

	apiCfg := opt.Config.Prefix("CORE_API_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Timeout:  apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:     apiCfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		Throttle: apiCfg.MayInt("MAX_INFLIGHT", 0),
		CORS: middleware.CORSOptions{
			AllowedOrigins:   apiCfg.MayCSV("CORS_ORIGINS", []string{"http://localhost:5173"}),
			AllowCredentials: true,
		},
		Extra: []func(http.Handler) http.Handler{opt.Metrics.Middleware},
		Quiet: []string{"/api/v1/meta/health", "/api/v1/meta/ready"},
	})

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(str.MustString(m.Name(), "module name"), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// Swagger + profiler + metrics
	swaggerkit.Mount(r, opt.EnableSwagger, "")
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	log.Info().Int("modules", len(mods)).Bool("pg", deps.HasPG()).Bool("redis", deps.Redis != nil).
		Bool("events", deps.Events != nil).Bool("mail", deps.Mailer != nil).Msg("api mounted")
	return Mounted{Modules: mods, Detach: detach}
}

// feedFor picks the dashboard source: an explicit feed, postgres notifications, or the in-process broadcaster
func feedFor(opt Options, deps modkit.Deps, load pgfeed.Loader) dashboard.Feed {
	if opt.Feed != nil {
		return opt.Feed
	}
	if l, ok := deps.PG.(store.Listener); ok {
		return pgfeed.New(l, load)
	}
	if deps.Leads != nil {
		return deps.Leads
	}
	return nil
}
