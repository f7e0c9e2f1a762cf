package repo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/services/api/auth/domain"

	"github.com/redis/go-redis/v9"
)

const pendingKeyPrefix = "leadscore:auth:pending:"

// RedisPending keeps pending registrations as JSON values with a TTL
type RedisPending struct {
	rdb *redis.Client
}

// NewRedisPending wraps a redis client
func NewRedisPending(rdb *redis.Client) *RedisPending {
	if rdb == nil {
		panic("auth.RedisPending requires a non nil client")
	}
	return &RedisPending{rdb: rdb}
}

// Put replaces any pending registration for the email
// the key outlives the code by a minute so an expired code still reads as expired
func (r *RedisPending) Put(ctx context.Context, p domain.Pending, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode pending")
	}
	return perr.FromRedis(r.rdb.Set(ctx, pendingKeyPrefix+p.Email, b, ttl+time.Minute).Err(), "store pending")
}

// Get loads a pending registration, not found when absent
func (r *RedisPending) Get(ctx context.Context, email string) (domain.Pending, error) {
	b, err := r.rdb.Get(ctx, pendingKeyPrefix+email).Bytes()
	if err != nil {
		return domain.Pending{}, perr.FromRedis(err, "load pending")
	}
	var p domain.Pending
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Pending{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode pending")
	}
	return p, nil
}

// Delete drops a pending registration, absent keys are fine
func (r *RedisPending) Delete(ctx context.Context, email string) error {
	return perr.FromRedis(r.rdb.Del(ctx, pendingKeyPrefix+email).Err(), "delete pending")
}

// MemoryPending is an in-process PendingStore
// entries are swept lazily one minute after their deadline
type MemoryPending struct {
	mu   sync.Mutex
	rows map[string]memPending
	now  func() time.Time
}

type memPending struct {
	p     domain.Pending
	until time.Time
}

// NewMemoryPending returns an empty store; now may be nil
func NewMemoryPending(now func() time.Time) *MemoryPending {
	if now == nil {
		now = time.Now
	}
	return &MemoryPending{rows: map[string]memPending{}, now: now}
}

// Put replaces any pending registration for the email
func (m *MemoryPending) Put(_ context.Context, p domain.Pending, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.rows[p.Email] = memPending{p: p, until: m.now().Add(ttl + time.Minute)}
	return nil
}

// Get loads a pending registration, not found when absent
func (m *MemoryPending) Get(_ context.Context, email string) (domain.Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	e, ok := m.rows[email]
	if !ok {
		return domain.Pending{}, perr.ErrNotFound
	}
	return e.p, nil
}

// Delete drops a pending registration
func (m *MemoryPending) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	delete(m.rows, email)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPending) sweepLocked() {
	now := m.now()
	for k, e := range m.rows {
		if now.After(e.until) {
			delete(m.rows, k)
		}
	}
}
