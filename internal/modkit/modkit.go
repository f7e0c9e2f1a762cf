package modkit

import (
	"leadscore/internal/modkit/module"
	phttp "leadscore/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module = module.Module

// Builder constructs a Module from shared deps and options
// modules expose New(deps Deps, opts ...Option) Module
type Builder func(Deps, ...Option) Module

// Base carries the built options and implements Module for embedding
// a module embeds Base and only supplies its Register hook
type Base struct {
	b Built
}

// NewBase applies opts with the module defaults in front
func NewBase(defaults []Option, opts ...Option) Base {
	return Base{b: Build(append(append([]Option(nil), defaults...), opts...)...)}
}

// Name returns the module name
func (m Base) Name() string { return m.b.Name }

// Prefix returns the mount prefix
func (m Base) Prefix() string { return m.b.Prefix }

// Ports returns the port set handed to the builder
func (m Base) Ports() any { return m.b.Ports }

// MountRoutes mounts the module under its prefix with its middleware
func (m Base) MountRoutes(r phttp.Router) {
	mount := func(sr phttp.Router) {
		if len(m.b.Mw) > 0 {
			sr.Use(m.b.Mw...)
		}
		m.b.Register(sr)
	}
	if m.b.Prefix == "" || m.b.Prefix == "/" {
		r.Group(mount)
		return
	}
	r.Route(m.b.Prefix, mount)
}
