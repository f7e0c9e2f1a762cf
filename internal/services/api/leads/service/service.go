// Package service contains lead intake workflows
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"leadscore/internal/core/leads"
	"leadscore/internal/core/scoring"
	"leadscore/internal/modkit"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/net/http/bind"
	"leadscore/internal/platform/store"
	"leadscore/internal/services/api/leads/domain"

	"github.com/google/uuid"
)

// Service defines the lead service contract
type Service interface {
	domain.ServicePort
}

// Config tunes the service
type Config struct {
	// DefaultLimit applies when Recent is asked for 0 rows
	DefaultLimit int
	// MirrorTable receives one row per lead when clickhouse is wired
	MirrorTable string
}

// Svc implements the lead service
type Svc struct {
	store   domain.Store
	scorer  scoring.Scorer
	mirror  store.Clickhouse
	events  modkit.Publisher
	metrics domain.Metrics
	cfg     Config
	now     func() time.Time
	newID   func() string
	spawn   func(func())
}

// Option configures optional collaborators
type Option func(*Svc)

// WithScorer replaces the placeholder scorer
func WithScorer(s scoring.Scorer) Option { return func(v *Svc) { v.scorer = s } }

// WithMirror mirrors every lead into clickhouse
func WithMirror(ch store.Clickhouse) Option { return func(v *Svc) { v.mirror = ch } }

// WithEvents publishes lead.created after every lead
func WithEvents(p modkit.Publisher) Option { return func(v *Svc) { v.events = p } }

// WithMetrics reports intake counters
func WithMetrics(m domain.Metrics) Option { return func(v *Svc) { v.metrics = m } }

// WithClock fixes the clock
func WithClock(now func() time.Time) Option { return func(v *Svc) { v.now = now } }

// WithIDs fixes the id generator
func WithIDs(fn func() string) Option { return func(v *Svc) { v.newID = fn } }

// WithSpawn replaces the goroutine launcher used for event publishing
func WithSpawn(fn func(func())) Option { return func(v *Svc) { v.spawn = fn } }

// New constructs a lead service over st
func New(st domain.Store, cfg Config, opts ...Option) *Svc {
	if st == nil {
		panic("leads.Service requires a non nil Store")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MirrorTable == "" {
		cfg.MirrorTable = "lead_events"
	}
	s := &Svc{
		store:  st,
		scorer: scoring.NewRandom(uint64(time.Now().UnixNano()), 0x1ead5c0e),
		cfg:    cfg,
		now:    time.Now,
		newID:  uuid.NewString,
		spawn:  func(fn func()) { go fn() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit validates the form, scores it, stores it and fans it out to the side channels
// side channel failures are logged and counted but never fail the submission
// the event publish runs after the reply on a context the client cannot cancel
func (s *Svc) Submit(ctx context.Context, ownerID string, in domain.SubmitInput) (domain.Submitted, error) {
	in.Normalize()
	if err := bind.Validate(in); err != nil {
		return domain.Submitted{}, err
	}

	score := math.Round(s.scorer.Score(scoring.Input{
		Name: in.Name, Email: in.Email, Company: in.Company, Pitch: in.Pitch, Source: in.Source,
	}))
	lead := domain.Lead{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Pitch:     in.Pitch,
		Source:    in.Source,
		Score:     &score,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, lead); err != nil {
		return domain.Submitted{}, err
	}
	if s.metrics != nil {
		s.metrics.LeadSubmitted()
	}

	log := logger.C(ctx)
	log.Info().Str("lead_id", lead.ID).Float64("score", score).Str("source", lead.Source).Msg("lead submitted")

	s.mirrorLead(ctx, lead)
	s.publish(ctx, lead)

	return domain.Submitted{
		ID:      lead.ID,
		Score:   int(score),
		Message: fmt.Sprintf("Lead submitted successfully! Score: %d", int(score)),
	}, nil
}

func (s *Svc) mirrorLead(ctx context.Context, l domain.Lead) {
	if s.mirror == nil {
		return
	}
	row := []any{l.ID, l.OwnerID, l.Source, l.Company, *l.Score, l.CreatedAt}
	if err := s.mirror.Insert(ctx, s.cfg.MirrorTable, [][]any{row}); err != nil {
		s.sideFailed(ctx, "clickhouse", l.ID, err)
	}
}

func (s *Svc) publish(ctx context.Context, l domain.Lead) {
	if s.events == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	ev := domain.CreatedEvent{
		ID:        l.ID,
		OwnerID:   l.OwnerID,
		Source:    l.Source,
		Company:   l.Company,
		Score:     int(*l.Score),
		CreatedAt: l.CreatedAt,
	}
	s.spawn(func() {
		if err := s.events.Publish(ctx, domain.EventLeadCreated, l.ID, ev); err != nil {
			s.sideFailed(ctx, "kafka", l.ID, err)
		}
	})
}

func (s *Svc) sideFailed(ctx context.Context, channel, id string, err error) {
	log := logger.C(ctx)
	log.Warn().Err(err).Str("channel", channel).Str("lead_id", id).Msg("side channel failed")
	if s.metrics != nil {
		s.metrics.SideChannelFailed(channel)
	}
}

// Recent lists the newest leads, limit 0 picks the default
func (s *Svc) Recent(ctx context.Context, limit int) ([]leads.Record, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	rows, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return domain.Records(rows), nil
}

// Snapshot loads every lead newest first, the dashboard feed loader
func (s *Svc) Snapshot(ctx context.Context) ([]leads.Record, error) {
	rows, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Records(rows), nil
}
