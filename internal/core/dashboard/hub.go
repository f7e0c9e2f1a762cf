package dashboard

import (
	"sync"
	"time"

	"leadscore/internal/core/leads"
)

// Hub shares one feed subscription across many per-session pipelines
// each pipeline keeps its own snapshot copy, so memory grows with live sessions
// until they are dropped or evicted as idle
type Hub struct {
	mu        sync.Mutex
	records   []leads.Record
	received  bool
	feedErr   string
	pipelines map[string]*Pipeline
	lastUsed  map[string]time.Time
	opts      []Option
	now       func() time.Time
	detach    func()
}

// NewHub builds a hub; opts are applied to every pipeline it creates
// the hub reads idle time from the same clock its pipelines use
func NewHub(opts ...Option) *Hub {
	clk := &Pipeline{now: time.Now}
	for _, o := range opts {
		o(clk)
	}
	return &Hub{
		pipelines: map[string]*Pipeline{},
		lastUsed:  map[string]time.Time{},
		opts:      opts,
		now:       clk.now,
	}
}

// Attach subscribes the hub to f, replacing any earlier subscription
func (h *Hub) Attach(f Feed) (detach func()) {
	unsub := f.Subscribe(h.update, h.fail)
	var once sync.Once
	d := func() { once.Do(unsub) }

	h.mu.Lock()
	prev := h.detach
	h.detach = d
	h.mu.Unlock()
	if prev != nil {
		prev()
	}
	return d
}

// Close releases the current subscription
func (h *Hub) Close() {
	h.mu.Lock()
	d := h.detach
	h.detach = nil
	h.mu.Unlock()
	if d != nil {
		d()
	}
}

// Pipeline returns the session's pipeline, creating and seeding it on first use
func (h *Hub) Pipeline(key string) *Pipeline {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastUsed[key] = h.now()
	if p, ok := h.pipelines[key]; ok {
		return p
	}
	p := New(h.opts...)
	if h.received {
		p.SetRecords(h.records)
	}
	if h.feedErr != "" {
		p.Fail(h.feedErr)
	}
	h.pipelines[key] = p
	return p
}

// Drop forgets a session's pipeline
func (h *Hub) Drop(key string) {
	h.mu.Lock()
	delete(h.pipelines, key)
	delete(h.lastUsed, key)
	h.mu.Unlock()
}

// Evict drops every pipeline not asked for within idle and returns how many went
func (h *Hub) Evict(idle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	cutoff := h.now().Add(-idle)
	n := 0
	for key, at := range h.lastUsed {
		if at.Before(cutoff) {
			delete(h.pipelines, key)
			delete(h.lastUsed, key)
			n++
		}
	}
	return n
}

// Sweep runs Evict every interval until the returned stop func is called
// onEvict, when set, sees each non-empty eviction and the sessions left
func (h *Hub) Sweep(every, idle time.Duration, onEvict func(evicted, left int)) (stop func()) {
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-quit:
				return
			case <-t.C:
				if n := h.Evict(idle); n > 0 && onEvict != nil {
					onEvict(n, h.Sessions())
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}

// Snapshot returns the latest delivered records and feed error
func (h *Hub) Snapshot() ([]leads.Record, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]leads.Record, len(h.records))
	copy(out, h.records)
	return out, h.feedErr
}

// Sessions is the number of live pipelines
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pipelines)
}

func (h *Hub) update(records []leads.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = records
	h.received = true
	h.feedErr = ""
	for _, p := range h.pipelines {
		p.SetRecords(records)
	}
}

func (h *Hub) fail(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feedErr = msg
	for _, p := range h.pipelines {
		p.Fail(msg)
	}
}
