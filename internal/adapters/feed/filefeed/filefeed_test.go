package filefeed

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"leadscore/internal/core/leads"
	"leadscore/internal/platform/testkit"

	"go.uber.org/goleak"
)

type sink struct {
	mu      sync.Mutex
	updates [][]leads.Record
	errs    []string
}

func (s *sink) update(rs []leads.Record) {
	s.mu.Lock()
	s.updates = append(s.updates, rs)
	s.mu.Unlock()
}

func (s *sink) fail(msg string) {
	s.mu.Lock()
	s.errs = append(s.errs, msg)
	s.mu.Unlock()
}

func (s *sink) last() ([]leads.Record, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return nil, 0, len(s.errs)
	}
	return s.updates[len(s.updates)-1], len(s.updates), len(s.errs)
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_SortsAndTolerates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leads.json")
	write(t, path, `[
		{"id":"old","score":"55","createdAt":"2026-10-01"},
		{"id":"new","score":80,"createdAt":"2026-10-17T10:00:00Z"},
		{"id":"odd","score":{"x":1},"createdAt":{"seconds":1760000000,"nanoseconds":0}}
	]`)

	recs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := []string{recs[0].ID, recs[1].ID, recs[2].ID}
	testkit.MustEqual(t, []string{"new", "old", "odd"}, ids)
	if recs[2].Score != nil {
		t.Fatal("object score should decode as absent")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestLoad_StrayEntriesKeepTheRest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leads.json")
	write(t, path, `[{"id":"a","score":61}, 5, "junk", {"id":"b","score":"abc"}]`)

	recs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testkit.MustEqual(t, 2, len(recs))
}

func TestFeed_DeliversInitialAndChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "leads.json")
	write(t, path, `[{"id":"a","score":10}]`)

	s := &sink{}
	unsub := New(path, WithDebounce(5*time.Millisecond)).Subscribe(s.update, s.fail)
	defer unsub()

	if _, n, _ := s.last(); n != 1 {
		t.Fatalf("initial snapshot should be delivered synchronously, got %d", n)
	}

	write(t, path, `[{"id":"a","score":10},{"id":"b","score":90}]`)
	testkit.Eventually(t, 2*time.Second, func() bool {
		recs, _, _ := s.last()
		return len(recs) == 2
	}, "change delivered")
}

func TestFeed_BadJSONKeepsLastSnapshot(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "leads.json")
	write(t, path, `[{"id":"a"}]`)

	s := &sink{}
	unsub := New(path, WithDebounce(0)).Subscribe(s.update, s.fail)

	write(t, path, `[{"id":`)
	testkit.Eventually(t, 2*time.Second, func() bool { _, _, e := s.last(); return e > 0 }, "decode error reported")
	unsub()

	recs, _, _ := s.last()
	if len(recs) != 1 || recs[0].ID != "a" {
		t.Fatalf("last good snapshot should stand, got %+v", recs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !strings.HasPrefix(s.errs[0], "read "+path) {
		t.Fatalf("error = %q", s.errs[0])
	}
}

func TestFeed_ReplaceByRename(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "leads.json")
	write(t, path, `[]`)

	s := &sink{}
	unsub := New(path, WithDebounce(5*time.Millisecond)).Subscribe(s.update, s.fail)
	defer unsub()

	tmp := filepath.Join(dir, "leads.json.tmp")
	write(t, tmp, `[{"id":"x"},{"id":"y"},{"id":"z"}]`)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	testkit.Eventually(t, 2*time.Second, func() bool {
		recs, _, _ := s.last()
		return len(recs) == 3
	}, "renamed file picked up")
}

func TestFeed_UnwatchableDirStillLoadsOnce(t *testing.T) {
	t.Parallel()

	s := &sink{}
	unsub := New(filepath.Join(t.TempDir(), "nope", "leads.json")).Subscribe(s.update, s.fail)
	unsub()

	if _, n, e := s.last(); n != 0 || e != 1 {
		t.Fatalf("updates=%d errs=%d", n, e)
	}
}
