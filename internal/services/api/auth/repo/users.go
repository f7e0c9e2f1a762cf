// Package repo provides account persistence
// users live in postgres or memory, pending registrations in redis or memory
package repo

import (
	"context"
	"sync"

	"leadscore/internal/modkit/repokit"
	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/store"
	str "leadscore/internal/platform/strings"
	"leadscore/internal/services/api/auth/domain"
)

type (
	// UsersBinder binds the users queries to a Queryer
	UsersBinder struct{}
	// userQueries implements domain.Users over sql
	userQueries struct{ q repokit.Queryer }
)

// NewUsersBinder returns the postgres binder
func NewUsersBinder() repokit.Binder[domain.Users] { return UsersBinder{} }

// Bind wires a Queryer to the users queries
func (UsersBinder) Bind(q repokit.Queryer) domain.Users { return &userQueries{q: q} }

func (r *userQueries) Create(ctx context.Context, u domain.User) error {
	const sql = `
insert into users (id, name, phone, user_type, email, password_hash, created_at)
values ($1, $2, $3, $4, $5, $6, $7)
`
	err := store.ExecOne(ctx, r.q, sql, u.ID, u.Name, str.SQLNull(u.Phone), u.UserType, u.Email, u.PasswordHash, u.CreatedAt)
	return perr.FromPostgres(err, "create user")
}

func (r *userQueries) ByEmail(ctx context.Context, email string) (domain.User, error) {
	const sql = `
select id::text, name, coalesce(phone, ''), user_type, email, password_hash, created_at
from users where email = $1
`
	u, err := store.One(ctx, r.q, func(row store.Row) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Name, &u.Phone, &u.UserType, &u.Email, &u.PasswordHash, &u.CreatedAt)
		return u, err
	}, sql, email)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.User{}, err
	}
	return u, perr.FromPostgres(err, "find user")
}

// MemoryUsers is an in-process domain.Users
type MemoryUsers struct {
	mu   sync.RWMutex
	rows map[string]domain.User
}

// NewMemoryUsers returns an empty user store
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{rows: map[string]domain.User{}}
}

// Create stores u unless its email is taken
func (m *MemoryUsers) Create(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.Email]; ok {
		return perr.WithField(perr.New(perr.ErrorCodeDuplicateKey, "create user"), "email")
	}
	m.rows[u.Email] = u
	return nil
}

// ByEmail finds a user or answers not found
func (m *MemoryUsers) ByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.rows[email]
	if !ok {
		return domain.User{}, perr.ErrNotFound
	}
	return u, nil
}
