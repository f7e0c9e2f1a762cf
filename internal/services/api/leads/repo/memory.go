package repo

import (
	"context"
	"sort"
	"sync"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/services/api/leads/domain"
)

// Memory is an in-process Store
// onChange receives the full set, newest first, after every write
type Memory struct {
	mu       sync.Mutex
	rows     []domain.Lead
	onChange func([]domain.Lead)
}

// NewMemory returns an empty Memory store; onChange may be nil
func NewMemory(onChange func([]domain.Lead)) *Memory {
	return &Memory{onChange: onChange}
}

// Create appends the lead, ids must be unique
func (m *Memory) Create(_ context.Context, l domain.Lead) error {
	m.mu.Lock()
	for _, r := range m.rows {
		if r.ID == l.ID {
			m.mu.Unlock()
			return perr.WithField(perr.New(perr.ErrorCodeDuplicateKey, "lead already exists"), "id")
		}
	}
	m.rows = append(m.rows, l)
	sortNewest(m.rows)
	snap := m.copyLocked(len(m.rows))
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(snap)
	}
	return nil
}

// Recent returns up to limit leads newest first
func (m *Memory) Recent(_ context.Context, limit int) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked(limit), nil
}

// All returns every lead newest first
func (m *Memory) All(_ context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked(len(m.rows)), nil
}

func (m *Memory) copyLocked(limit int) []domain.Lead {
	if limit < 0 || limit > len(m.rows) {
		limit = len(m.rows)
	}
	out := make([]domain.Lead, limit)
	copy(out, m.rows[:limit])
	return out
}

func sortNewest(rows []domain.Lead) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
}
