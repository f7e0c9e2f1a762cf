package domain

import (
	"context"

	"leadscore/internal/core/leads"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Submit(ctx context.Context, ownerID string, in SubmitInput) (Submitted, error)
	Recent(ctx context.Context, limit int) ([]leads.Record, error)
	Snapshot(ctx context.Context) ([]leads.Record, error)
}

// Store persists leads
// Create must make the new lead visible to the dashboard feed
type Store interface {
	Create(ctx context.Context, l Lead) error
	Recent(ctx context.Context, limit int) ([]Lead, error)
	All(ctx context.Context) ([]Lead, error)
}

// Metrics is the slice of the metrics registry intake reports to
type Metrics interface {
	LeadSubmitted()
	SideChannelFailed(channel string)
}
