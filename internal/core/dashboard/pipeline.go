// Package dashboard keeps derived lead views in step with a live record feed
// A Pipeline owns one snapshot, one filter state and the last published View
// Recomputation is synchronous and runs only when an input really changed
package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"leadscore/internal/core/leads"
)

// Feed is any push source of full-replacement lead snapshots
// Deliveries are ordered by createdAt descending; unsubscribe must be idempotent
type Feed interface {
	Subscribe(onUpdate func([]leads.Record), onError func(string)) (unsubscribe func())
}

// FeedFunc adapts a plain function to Feed
type FeedFunc func(onUpdate func([]leads.Record), onError func(string)) func()

// Subscribe implements Feed
func (f FeedFunc) Subscribe(onUpdate func([]leads.Record), onError func(string)) func() {
	return f(onUpdate, onError)
}

// Recompute triggers
const (
	TriggerRecords = "records"
	TriggerFilter  = "filter"
	TriggerDay     = "day"
)

// Observer receives pipeline telemetry; all methods must be cheap and non-blocking
type Observer interface {
	Recomputed(trigger string, took time.Duration)
	FeedUpdated(records int)
	FeedFailed(msg string)
}

type nopObserver struct{}

func (nopObserver) Recomputed(string, time.Duration) {}
func (nopObserver) FeedUpdated(int)                  {}
func (nopObserver) FeedFailed(string)                {}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock sets the time source used for the trailing window and labels
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation sets the zone calendar days are computed in
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithObserver attaches telemetry
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.obs = o
		}
	}
}

// WithOnChange registers a callback that runs after each publish, under the pipeline lock
func WithOnChange(fn func(leads.View)) Option {
	return func(p *Pipeline) { p.onChange = fn }
}

// WithFilter seeds the initial filter state
func WithFilter(st leads.FilterState) Option {
	return func(p *Pipeline) { p.state = st.Normalize() }
}

// Pipeline recomputes a View whenever the snapshot, the filter state or the local day changes
type Pipeline struct {
	mu       sync.Mutex
	records  []leads.Record
	gen      uint64
	state    leads.FilterState
	feedErr  string
	computed struct {
		gen   uint64
		state leads.FilterState
		day   leads.Day
		ok    bool
	}
	view     atomic.Pointer[leads.View]
	now      func() time.Time
	loc      *time.Location
	obs      Observer
	onChange func(leads.View)
}

// New builds a pipeline over an empty snapshot and publishes its first view
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		state: leads.DefaultFilter(),
		now:   time.Now,
		loc:   time.Local,
		obs:   nopObserver{},
	}
	for _, o := range opts {
		o(p)
	}
	p.mu.Lock()
	p.recomputeLocked(TriggerRecords)
	p.mu.Unlock()
	return p
}

// SetRecords replaces the snapshot and recomputes; it also clears a prior feed error
func (p *Pipeline) SetRecords(records []leads.Record) {
	cp := make([]leads.Record, len(records))
	copy(cp, records)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = cp
	p.gen++
	p.feedErr = ""
	p.obs.FeedUpdated(len(cp))
	p.recomputeLocked(TriggerRecords)
}

// SetFilter replaces the filter state; it reports whether anything was recomputed
func (p *Pipeline) SetFilter(st leads.FilterState) bool {
	st = st.Normalize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Equal(st) {
		return false
	}
	p.state = st
	p.recomputeLocked(TriggerFilter)
	return true
}

// ResetFilter restores the all-unset filter state
func (p *Pipeline) ResetFilter() bool { return p.SetFilter(leads.DefaultFilter()) }

// Filter returns the current filter state
func (p *Pipeline) Filter() leads.FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Fail records a feed failure; the last view stays valid and carries the message
func (p *Pipeline) Fail(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feedErr = msg
	p.obs.FeedFailed(msg)
	if cur := p.view.Load(); cur != nil {
		v := *cur
		v.Err = msg
		p.publishLocked(v)
	}
}

// View returns the latest view, recomputing first if the local day rolled over
func (p *Pipeline) View() leads.View {
	if v := p.view.Load(); v != nil && leads.DayOf(p.now(), p.loc) == p.dayOf(v) {
		return *v
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.computed.day != leads.DayOf(p.now(), p.loc) {
		p.recomputeLocked(TriggerDay)
	}
	return *p.view.Load()
}

// Records returns the current snapshot
func (p *Pipeline) Records() []leads.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]leads.Record, len(p.records))
	copy(out, p.records)
	return out
}

// Attach subscribes the pipeline to a feed; the returned func detaches it
func (p *Pipeline) Attach(f Feed) (detach func()) {
	return f.Subscribe(p.SetRecords, p.Fail)
}

func (p *Pipeline) dayOf(v *leads.View) leads.Day {
	return leads.DayOf(v.GeneratedAt, p.loc)
}

// recomputeLocked derives a fresh view unless the inputs match the last computation
func (p *Pipeline) recomputeLocked(trigger string) {
	now := p.now()
	day := leads.DayOf(now, p.loc)
	c := &p.computed
	if c.ok && c.gen == p.gen && c.state.Equal(p.state) && c.day == day {
		return
	}
	start := time.Now()
	v := leads.Compute(p.records, p.state, leads.Options{Now: now, Loc: p.loc})
	v.Err = p.feedErr
	c.gen, c.state, c.day, c.ok = p.gen, p.state, day, true
	p.publishLocked(v)
	p.obs.Recomputed(trigger, time.Since(start))
}

func (p *Pipeline) publishLocked(v leads.View) {
	p.view.Store(&v)
	if p.onChange != nil {
		p.onChange(v)
	}
}
