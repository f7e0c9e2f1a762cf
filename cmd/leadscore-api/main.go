// @title         LeadScore API
// @version       0.1.0
// @description   Lead intake, authentication and per-user analytics dashboards
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscore/internal/adapters/events/kafkapub"
	"leadscore/internal/adapters/feed/filefeed"
	"leadscore/internal/adapters/mail/smtpmail"
	"leadscore/internal/core/dashboard"
	"leadscore/internal/modkit"
	"leadscore/internal/platform/config"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/metrics"
	phttp "leadscore/internal/platform/net/http"
	"leadscore/internal/platform/store"
	"leadscore/internal/platform/store/schema"

	"leadscore/internal/services/api"
	dashmod "leadscore/internal/services/api/dashboard/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	rdCfg := root.Prefix("SERVICE_REDIS_")
	kfCfg := root.Prefix("SERVICE_KAFKA_")
	smCfg := root.Prefix("SERVICE_SMTP_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store, every backend is optional
	pgOn := pgCfg.MayBool("ENABLED", true)
	chOn := chCfg.MayBool("ENABLED", false)
	rdOn := rdCfg.MayBool("ENABLED", false)
	sc := store.Config{AppName: "leadscore-api"}
	if pgOn {
		sc.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if chOn {
		sc.CH = store.CHConfig{Enabled: true, URL: chCfg.MustString("DBURL")}
	}
	if rdOn {
		sc.Redis = store.RedisConfig{Enabled: true, URL: rdCfg.MustString("URL")}
	}
	st, err := store.Open(ctx, sc, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// idempotent ddl, on by default so a fresh database boots
	if st.PG != nil && pgCfg.MayBool("MIGRATE", true) {
		if err := schema.ApplyPG(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("postgres schema")
		}
	}
	if st.CH != nil && chCfg.MayBool("MIGRATE", true) {
		if err := schema.ApplyCH(ctx, st.CH); err != nil {
			l.Panic().Err(err).Msg("clickhouse schema")
		}
	}

	// lead events, best effort
	var events modkit.Publisher
	if kfCfg.MayBool("ENABLED", false) {
		pub, err := kafkapub.New(kafkapub.Config{
			Brokers:      kfCfg.MayCSV("BROKERS", []string{"localhost:9092"}),
			Topic:        kfCfg.MayString("TOPIC", "leadscore.leads"),
			WriteTimeout: kfCfg.MayDuration("WRITE_TIMEOUT", 0),
		})
		if err != nil {
			l.Panic().Err(err).Msg("kafka publisher")
		}
		defer func() {
			if err := pub.Close(); err != nil {
				l.Error().Err(err).Msg("failed to close kafka publisher")
			}
		}()
		events = pub
	}

	// verification mail, codes are logged when off
	var mailer modkit.Mailer
	if smCfg.MayBool("ENABLED", false) {
		sm, err := smtpmail.New(smtpmail.Config{
			Host:    smCfg.MustString("HOST"),
			Port:    smCfg.MayInt("PORT", 587),
			User:    smCfg.MayString("USER", ""),
			Pass:    smCfg.MayString("PASS", ""),
			From:    smCfg.MayString("FROM", smtpmail.DefaultFrom),
			Timeout: smCfg.MayDuration("TIMEOUT", 20*time.Second),
		})
		if err != nil {
			l.Panic().Err(err).Msg("smtp mailer")
		}
		mailer = sm
	}

	m := metrics.New("leadscore")
	dash := dashmod.FromConfig(root)
	hub := dashboard.NewHub(dashboard.WithObserver(m), dashboard.WithLocation(dash.Location))
	defer hub.Close()

	// a fixture file replaces the database feed for demos
	var feed dashboard.Feed
	if path := root.Prefix("DASHBOARD_").MayString("FILE", ""); path != "" {
		feed = filefeed.New(path, filefeed.WithLogger(*logger.Named("filefeed")))
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        m,
			Hub:            hub,
			Feed:           feed,
			Events:         events,
			Mailer:         mailer,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)
	defer mounted.Detach()

	// run until interrupted
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("leadscore-api stopped")
}
