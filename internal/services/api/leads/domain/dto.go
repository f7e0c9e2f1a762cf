// Package domain holds DTOs and ports for lead intake
package domain

import (
	"time"

	"leadscore/internal/core/leads"
	str "leadscore/internal/platform/strings"
	ptime "leadscore/internal/platform/time"
)

// SubmitInput is the lead form
// fields are trimmed before validation so padding never satisfies a length rule
type SubmitInput struct {
	Name    string `json:"name" validate:"required,min=2,max=200" example:"Ada Lovelace"`
	Email   string `json:"email" validate:"required,email,max=320" example:"ada@acme.io"`
	Company string `json:"company,omitempty" validate:"max=200" example:"Acme Corp"`
	Pitch   string `json:"pitch" validate:"required,min=10,max=5000" example:"Looking to qualify inbound demo requests"`
	Source  string `json:"source,omitempty" validate:"max=100" example:"web"`
}

// Normalize trims every field in place
func (in *SubmitInput) Normalize() {
	str.TrimAll(&in.Name, &in.Email, &in.Company, &in.Pitch, &in.Source)
}

// Submitted is the intake reply
type Submitted struct {
	ID      string `json:"id" example:"0b7f5c1e-8f0e-4a57-9d55-5a0f3c1b2e11"`
	Score   int    `json:"score" example:"72"`
	Message string `json:"message" example:"Lead submitted successfully! Score: 72"`
}

// ListInput bounds the recent list
type ListInput struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=500" example:"50"`
}

// Lead is a stored lead with its owner
type Lead struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Company   string
	Pitch     string
	Source    string
	Score     *float64
	CreatedAt time.Time
}

// Record projects a stored lead onto the analytics record, a zero CreatedAt reads as absent
func (l Lead) Record() leads.Record {
	return leads.Record{
		ID:        l.ID,
		Score:     l.Score,
		Source:    l.Source,
		CreatedAt: ptime.Ptr(l.CreatedAt),
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		Pitch:     l.Pitch,
	}
}

// Records projects a slice, order preserved
func Records(ls []Lead) []leads.Record {
	out := make([]leads.Record, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Record())
	}
	return out
}

// EventLeadCreated is the event type published after a lead is stored
const EventLeadCreated = "lead.created"

// CreatedEvent is the lead.created payload
type CreatedEvent struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Source    string    `json:"source,omitempty"`
	Company   string    `json:"company,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
