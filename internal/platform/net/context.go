// Package net provides transport-neutral request context values and reply envelopes
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyPrincipal ctxKey = "principal"

// Principal is the authenticated caller attached by the auth middleware
type Principal struct {
	UserID string
	Email  string
}

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	// set chi RequestID so chimw.GetReqID can retrieve it
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithPrincipal annotates context with the authenticated caller
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if p.UserID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyPrincipal, p)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// PrincipalFrom returns the caller on the context, ok is false for anonymous requests
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)
	return p, ok && p.UserID != ""
}

// UserID returns the authenticated user id or ""
func UserID(ctx context.Context) string {
	p, _ := PrincipalFrom(ctx)
	return p.UserID
}
