// Package repo provides lead persistence
// PG stores leads in postgres and signals the dashboard feed in the same tx
// Memory keeps them in process and pushes every change to a broadcaster
package repo

import (
	"context"
	"time"

	"leadscore/internal/adapters/feed/pgfeed"
	"leadscore/internal/modkit/repokit"
	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/store"
	str "leadscore/internal/platform/strings"
	"leadscore/internal/services/api/leads/domain"
)

// Queries is the sql surface bound to a pool or a tx
type Queries interface {
	Insert(ctx context.Context, l domain.Lead) error
	Notify(ctx context.Context, channel, payload string) error
	Recent(ctx context.Context, limit int) ([]domain.Lead, error)
	All(ctx context.Context) ([]domain.Lead, error)
}

type (
	// Binder binds Queries to a Queryer
	Binder struct{}
	// queries implements Queries
	queries struct{ q repokit.Queryer }
)

// NewBinder returns the postgres binder
func NewBinder() repokit.Binder[Queries] { return Binder{} }

// Bind wires a Queryer to the queries
func (Binder) Bind(q repokit.Queryer) Queries { return &queries{q: q} }

const leadColumns = `id::text, owner_id, name, email, coalesce(company, ''), pitch, coalesce(source, ''), score, created_at`

func (r *queries) Insert(ctx context.Context, l domain.Lead) error {
	const sql = `
insert into leads (id, owner_id, name, email, company, pitch, source, score, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	err := store.ExecOne(ctx, r.q, sql,
		l.ID, l.OwnerID, l.Name, l.Email, str.SQLNull(l.Company), l.Pitch, str.SQLNull(l.Source), l.Score, l.CreatedAt)
	return perr.FromPostgres(err, "insert lead")
}

func (r *queries) Notify(ctx context.Context, channel, payload string) error {
	_, err := r.q.Exec(ctx, `select pg_notify($1, $2)`, channel, payload)
	return perr.FromPostgres(err, "notify "+channel)
}

func (r *queries) Recent(ctx context.Context, limit int) ([]domain.Lead, error) {
	out, err := store.Many(ctx, r.q, scanLead,
		`select `+leadColumns+` from leads order by created_at desc, id limit $1`, limit)
	return out, perr.FromPostgres(err, "list leads")
}

func (r *queries) All(ctx context.Context) ([]domain.Lead, error) {
	out, err := store.Many(ctx, r.q, scanLead,
		`select `+leadColumns+` from leads order by created_at desc, id`)
	return out, perr.FromPostgres(err, "load leads")
}

func scanLead(row store.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Email, &l.Company, &l.Pitch, &l.Source, &l.Score, &l.CreatedAt)
	return l, err
}

// PG is the postgres Store
type PG struct {
	db      repokit.TxRunner
	binder  repokit.Binder[Queries]
	channel string
}

// NewPG builds a Store over db
// every statement of a write tx is bounded by timeout, 0 leaves it unbounded
func NewPG(db repokit.TxRunner, timeout time.Duration) *PG {
	if db == nil {
		panic("leads.PG requires a non nil TxRunner")
	}
	return &PG{
		db:      repokit.WithBeginHooks(db, repokit.StatementTimeout(timeout)),
		binder:  NewBinder(),
		channel: pgfeed.Channel,
	}
}

// Create inserts the lead and notifies the feed channel in one tx
func (p *PG) Create(ctx context.Context, l domain.Lead) error {
	return repokit.WithTx(ctx, p.db, func(q repokit.Queryer) error {
		r := p.binder.Bind(q)
		if err := r.Insert(ctx, l); err != nil {
			return err
		}
		return r.Notify(ctx, p.channel, l.ID)
	})
}

// Recent lists the newest leads
func (p *PG) Recent(ctx context.Context, limit int) ([]domain.Lead, error) {
	return p.binder.Bind(p.db).Recent(ctx, limit)
}

// All loads every lead newest first
func (p *PG) All(ctx context.Context) ([]domain.Lead, error) {
	return p.binder.Bind(p.db).All(ctx)
}
