// Package service serves dashboard views out of the shared hub
package service

import (
	"context"
	"time"

	"leadscore/internal/core/dashboard"
	"leadscore/internal/core/leads"
	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/net/http/bind"
	"leadscore/internal/services/api/dashboard/domain"
)

// Svc implements domain.ServicePort over a hub keyed by session
type Svc struct {
	hub     *dashboard.Hub
	loc     *time.Location
	now     func() time.Time
	metrics domain.Metrics
}

// Option configures the service
type Option func(*Svc)

// WithLocation sets the zone one-shot queries run in
func WithLocation(loc *time.Location) Option { return func(s *Svc) { s.loc = loc } }

// WithClock fixes the clock of one-shot queries
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithMetrics reports the live session count
func WithMetrics(m domain.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// New builds the service
func New(hub *dashboard.Hub, opts ...Option) *Svc {
	if hub == nil {
		panic("dashboard.Service requires a non nil Hub")
	}
	s := &Svc{hub: hub, loc: time.Local, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// View returns the session's current view, creating the session on first use
func (s *Svc) View(_ context.Context, session string) leads.View {
	return s.pipeline(session).View()
}

// SetFilter replaces the session's filter and returns the resulting view
func (s *Svc) SetFilter(ctx context.Context, session string, in domain.FilterInput) (leads.View, error) {
	st, err := s.state(in)
	if err != nil {
		return leads.View{}, err
	}
	p := s.pipeline(session)
	if p.SetFilter(st) {
		log := logger.C(ctx)
		log.Debug().Str("session", session).Msg("dashboard filter changed")
	}
	return p.View(), nil
}

// ResetFilter restores the all-unset filter
func (s *Svc) ResetFilter(_ context.Context, session string) leads.View {
	p := s.pipeline(session)
	p.ResetFilter()
	return p.View()
}

// End forgets the session's pipeline
func (s *Svc) End(_ context.Context, session string) {
	s.hub.Drop(session)
	s.reportSessions()
}

// Query computes a view for in over the live snapshot without touching any session
func (s *Svc) Query(_ context.Context, in domain.FilterInput) (leads.View, error) {
	st, err := s.state(in)
	if err != nil {
		return leads.View{}, err
	}
	records, feedErr := s.hub.Snapshot()
	v := leads.Compute(records, st, leads.Options{Now: s.now(), Loc: s.loc})
	v.Err = feedErr
	return v, nil
}

// Sources lists the source filter options of the live snapshot
func (s *Svc) Sources(context.Context) []string {
	records, _ := s.hub.Snapshot()
	return leads.UniqueSources(records)
}

func (s *Svc) state(in domain.FilterInput) (leads.FilterState, error) {
	if err := bind.Validate(in); err != nil {
		return leads.FilterState{}, err
	}
	st, err := in.State()
	if err != nil {
		return leads.FilterState{}, perr.Wrap(err, perr.ErrorCodeValidation, "invalid date")
	}
	return st, nil
}

func (s *Svc) pipeline(session string) *dashboard.Pipeline {
	before := s.hub.Sessions()
	p := s.hub.Pipeline(session)
	if s.hub.Sessions() != before {
		s.reportSessions()
	}
	return p
}

func (s *Svc) reportSessions() {
	if s.metrics != nil {
		s.metrics.Sessions(s.hub.Sessions())
	}
}
