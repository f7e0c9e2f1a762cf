package domain

import (
	"context"
	"time"

	pnet "leadscore/internal/platform/net"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	Signup(ctx context.Context, in SignupInput) (SignupReply, error)
	Verify(ctx context.Context, in VerifyInput) (VerifyReply, error)
	Login(ctx context.Context, in LoginInput) (LoginReply, error)
}

// TokenPort issues and checks session tokens
type TokenPort interface {
	Issue(u User) (token string, expires time.Time, err error)
	Parse(token string) (pnet.Principal, error)
}

// Users persists accounts, emails are stored lowercased
// Create answers a duplicate key error for a taken email
type Users interface {
	Create(ctx context.Context, u User) error
	ByEmail(ctx context.Context, email string) (User, error)
}

// PendingStore holds registrations until they are verified or expire
type PendingStore interface {
	Put(ctx context.Context, p Pending, ttl time.Duration) error
	Get(ctx context.Context, email string) (Pending, error)
	Delete(ctx context.Context, email string) error
}

// Metrics is the slice of the metrics registry auth reports to
type Metrics interface {
	AuthEvent(event, outcome string)
}

// Mailer delivers a plain text message to one recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
