// Package pgfeed pushes lead snapshots out of postgres
// it LISTENs on a channel and reloads every lead after each notification
// a dropped listener or a transient load failure is retried with capped exponential backoff
package pgfeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"leadscore/internal/core/leads"
	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/store"
)

// Channel is the notification channel the lead insert signals on
const Channel = "leads_changed"

const (
	backoffStart   = 200 * time.Millisecond
	backoffCeiling = 10 * time.Second
)

// Loader reads the full lead snapshot, newest first
type Loader func(ctx context.Context) ([]leads.Record, error)

// Feed implements dashboard.Feed over LISTEN/NOTIFY
type Feed struct {
	listener store.Listener
	load     Loader
	channel  string
	log      logger.Logger
	start    time.Duration
	ceiling  time.Duration
}

// Option configures a Feed
type Option func(*Feed)

// WithChannel overrides the notification channel
func WithChannel(ch string) Option { return func(f *Feed) { f.channel = ch } }

// WithLogger sets the feed logger
func WithLogger(l logger.Logger) Option { return func(f *Feed) { f.log = l } }

// WithBackoff overrides the reconnect backoff bounds
func WithBackoff(start, ceiling time.Duration) Option {
	return func(f *Feed) {
		if start > 0 {
			f.start = start
		}
		if ceiling >= f.start {
			f.ceiling = ceiling
		}
	}
}

// New builds a feed; nothing runs until Subscribe
func New(l store.Listener, load Loader, opts ...Option) *Feed {
	f := &Feed{
		listener: l,
		load:     load,
		channel:  Channel,
		log:      *logger.Named("pgfeed"),
		start:    backoffStart,
		ceiling:  backoffCeiling,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Subscribe starts the listen loop and returns a func that stops it and waits for it to exit
func (f *Feed) Subscribe(onUpdate func([]leads.Record), onError func(string)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.run(ctx, onUpdate, onError)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (f *Feed) run(ctx context.Context, onUpdate func([]leads.Record), onError func(string)) {
	backoff := f.start
	for {
		// a reload on every (re)connect covers notifications missed while down
		if err := f.reload(ctx, onUpdate); err != nil {
			f.report(ctx, onError, "load leads", err)
			// transient failures retry the load, anything else waits for the next notification
			if perr.IsRetryable(err) {
				if !sleep(ctx, backoff) {
					return
				}
				backoff = min(backoff*2, f.ceiling)
				continue
			}
		} else {
			backoff = f.start
		}

		err := f.listener.Listen(ctx, f.channel, func(string) {
			if err := f.reload(ctx, onUpdate); err != nil {
				f.report(ctx, onError, "reload leads", err)
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errors.New("listener closed")
		}
		f.report(ctx, onError, "listen "+f.channel, err)

		if !sleep(ctx, backoff) {
			return
		}
		backoff = min(backoff*2, f.ceiling)
	}
}

// sleep waits d and reports false when ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (f *Feed) reload(ctx context.Context, onUpdate func([]leads.Record)) error {
	recs, err := f.load(ctx)
	if err != nil {
		return err
	}
	leads.SortNewestFirst(recs)
	if onUpdate != nil {
		onUpdate(recs)
	}
	return nil
}

func (f *Feed) report(ctx context.Context, onError func(string), what string, err error) {
	if ctx.Err() != nil {
		return
	}
	f.log.Warn().Err(err).Str("channel", f.channel).Msg(what + " failed")
	if onError != nil {
		onError(what + ": " + err.Error())
	}
}
