// Package modkit provides module wiring and core deps
package modkit

import (
	"context"

	"leadscore/internal/adapters/feed/memfeed"
	"leadscore/internal/core/dashboard"
	"leadscore/internal/modkit/repokit"
	"leadscore/internal/platform/config"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/metrics"
	"leadscore/internal/platform/net/middleware"
	"leadscore/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Publisher emits domain events keyed for partitioning
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, v any) error
}

// Mailer sends plain text mail to one recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Deps holds core dependencies passed to modules
// PG, CH, Redis, Events and Mailer are nil when the backend is disabled
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Redis *redis.Client

	// Metrics methods are nil safe, a nil value turns metrics off
	Metrics *metrics.Metrics

	// Events carries lead events to the broker
	Events Publisher

	// Mailer delivers verification codes
	Mailer Mailer

	// Auth verifies bearer tokens, set once the auth module is built
	Auth middleware.AuthPort

	// Hub serves the per-session dashboards
	Hub *dashboard.Hub

	// Leads is the in-process feed written to when postgres is disabled
	Leads *memfeed.Broadcaster
}

// FromStore copies the opened backends of st into a Deps
func FromStore(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG, d.CH, d.Redis = st.PG, st.CH, st.Redis
	}
	return d
}

// HasPG reports whether a postgres backend is wired
func (d Deps) HasPG() bool { return d.PG != nil }
