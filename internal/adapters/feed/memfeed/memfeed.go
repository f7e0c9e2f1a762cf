// Package memfeed is an in-process lead feed
// Publish fans a snapshot out to every subscriber synchronously
package memfeed

import (
	"sync"

	"leadscore/internal/core/leads"
)

type subscriber struct {
	onUpdate func([]leads.Record)
	onError  func(string)
}

// Broadcaster holds the latest snapshot and replays it to new subscribers
type Broadcaster struct {
	mu      sync.Mutex
	deliver sync.Mutex
	subs    map[int]subscriber
	next    int
	last    []leads.Record
	has     bool
}

// New returns an empty broadcaster
func New() *Broadcaster {
	return &Broadcaster{subs: map[int]subscriber{}}
}

// Subscribe registers callbacks and replays the latest snapshot if there is one
func (b *Broadcaster) Subscribe(onUpdate func([]leads.Record), onError func(string)) func() {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscriber{onUpdate: onUpdate, onError: onError}
	last, has := b.last, b.has
	b.mu.Unlock()

	if has && onUpdate != nil {
		onUpdate(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish sorts a copy newest first and delivers it to every subscriber
func (b *Broadcaster) Publish(records []leads.Record) {
	cp := make([]leads.Record, len(records))
	copy(cp, records)
	leads.SortNewestFirst(cp)

	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	b.last, b.has = cp, true
	subs := b.snapshotLocked()
	b.mu.Unlock()

	for _, s := range subs {
		if s.onUpdate != nil {
			s.onUpdate(cp)
		}
	}
}

// Fail reports an error to every subscriber; the last snapshot is kept
func (b *Broadcaster) Fail(msg string) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	subs := b.snapshotLocked()
	b.mu.Unlock()

	for _, s := range subs {
		if s.onError != nil {
			s.onError(msg)
		}
	}
}

// Subscribers is the number of live subscriptions
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) snapshotLocked() []subscriber {
	out := make([]subscriber, 0, len(b.subs))
	for i := 0; i < b.next; i++ {
		if s, ok := b.subs[i]; ok {
			out = append(out, s)
		}
	}
	return out
}
