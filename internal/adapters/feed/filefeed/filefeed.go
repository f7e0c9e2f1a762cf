// Package filefeed serves lead snapshots from a JSON file
// the file holds an array of records and is re-read whenever it is written, created or renamed
// the parent directory is watched so editors that replace the file by rename keep working
package filefeed

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"leadscore/internal/core/leads"
	"leadscore/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 50 * time.Millisecond

// Feed implements dashboard.Feed over a file
type Feed struct {
	path     string
	debounce time.Duration
	log      logger.Logger
}

// Option configures a Feed
type Option func(*Feed)

// WithDebounce coalesces bursts of events, 0 reloads on every event
func WithDebounce(d time.Duration) Option { return func(f *Feed) { f.debounce = d } }

// WithLogger sets the feed logger
func WithLogger(l logger.Logger) Option { return func(f *Feed) { f.log = l } }

// New builds a feed for path; nothing runs until Subscribe
func New(path string, opts ...Option) *Feed {
	f := &Feed{path: filepath.Clean(path), debounce: defaultDebounce, log: *logger.Named("filefeed")}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Load reads and decodes the file once, entries that are not objects are dropped
func Load(path string) ([]leads.Record, error) {
	recs, _, err := load(path)
	return recs, err
}

func load(path string) ([]leads.Record, int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	recs, skipped, err := leads.DecodeRecordsCounted(b)
	if err != nil {
		return nil, 0, err
	}
	leads.SortNewestFirst(recs)
	return recs, skipped, nil
}

// Subscribe delivers the current contents then every change until the returned func is called
// a decode failure is reported through onError and the previous snapshot stays in effect
func (f *Feed) Subscribe(onUpdate func([]leads.Record), onError func(string)) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	w, err := fsnotify.NewWatcher()
	if err == nil {
		err = w.Add(filepath.Dir(f.path))
	}
	if err != nil {
		if w != nil {
			_ = w.Close()
		}
		f.deliver(onUpdate, onError)
		f.fail(onError, "watch "+f.path, err)
		close(done)
		return func() {}
	}

	f.deliver(onUpdate, onError)
	go func() {
		defer close(done)
		f.loop(w, stop, onUpdate, onError)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			_ = w.Close()
		})
	}
}

func (f *Feed) loop(w *fsnotify.Watcher, stop <-chan struct{}, onUpdate func([]leads.Record), onError func(string)) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if f.debounce <= 0 {
				f.deliver(onUpdate, onError)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			f.deliver(onUpdate, onError)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.fail(onError, "watch "+f.path, err)
		}
	}
}

func (f *Feed) deliver(onUpdate func([]leads.Record), onError func(string)) {
	recs, skipped, err := load(f.path)
	if err != nil {
		// a rename away leaves nothing to read until the replacement lands
		if os.IsNotExist(err) {
			f.log.Debug().Str("path", f.path).Msg("lead file missing")
			return
		}
		f.fail(onError, "read "+f.path, err)
		return
	}
	if skipped > 0 {
		f.log.Warn().Str("path", f.path).Int("skipped", skipped).Msg("lead file has entries that are not objects")
	}
	if onUpdate != nil {
		onUpdate(recs)
	}
}

func (f *Feed) fail(onError func(string), what string, err error) {
	f.log.Warn().Err(err).Msg(what + " failed")
	if onError != nil {
		onError(what + ": " + err.Error())
	}
}
