// Package domain holds DTOs and ports for the per-session dashboard
package domain

import (
	"context"

	"leadscore/internal/core/leads"
)

// FilterInput is the wire form of a filter state
// unset fields leave that constraint off
type FilterInput struct {
	From     string   `json:"from,omitempty" validate:"day" example:"2026-10-01"`
	To       string   `json:"to,omitempty" validate:"day" example:"2026-10-18"`
	Source   string   `json:"source,omitempty" validate:"max=100" example:"web"`
	MinScore *float64 `json:"minScore,omitempty" validate:"omitempty,min=0,max=100" example:"40"`
	MaxScore *float64 `json:"maxScore,omitempty" validate:"omitempty,min=0,max=100" example:"99"`
	Query    string   `json:"q,omitempty" validate:"max=200" example:"acme"`
}

// State converts validated input into a filter state
func (in FilterInput) State() (leads.FilterState, error) {
	from, err := leads.ParseDay(in.From)
	if err != nil {
		return leads.FilterState{}, err
	}
	to, err := leads.ParseDay(in.To)
	if err != nil {
		return leads.FilterState{}, err
	}
	return leads.FilterState{
		StartDate: from,
		EndDate:   to,
		Source:    in.Source,
		MinScore:  in.MinScore,
		MaxScore:  in.MaxScore,
		Query:     in.Query,
	}.Normalize(), nil
}

// ServicePort is consumed by handlers
type ServicePort interface {
	View(ctx context.Context, session string) leads.View
	SetFilter(ctx context.Context, session string, in FilterInput) (leads.View, error)
	ResetFilter(ctx context.Context, session string) leads.View
	End(ctx context.Context, session string)
	Query(ctx context.Context, in FilterInput) (leads.View, error)
	Sources(ctx context.Context) []string
}

// Metrics is the slice of the metrics registry the dashboard reports to
type Metrics interface {
	Sessions(n int)
}
