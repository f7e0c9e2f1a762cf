package module

import (
	"time"

	"leadscore/internal/platform/config"
)

// Options holds configuration settings for the dashboard module
type Options struct {
	// Location is the zone calendar days and weekdays are computed in
	Location *time.Location
	// SessionIdle evicts a session's pipeline after this long without requests, 0 keeps them
	SessionIdle time.Duration
}

// FromConfig reads DASHBOARD_ settings
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("DASHBOARD_")
	return Options{
		Location:    dc.MayLocation("TZ", time.Local),
		SessionIdle: dc.MayDuration("SESSION_IDLE", 30*time.Minute),
	}
}

// SweepEvery is how often idle sessions are looked for
func (o Options) SweepEvery() time.Duration {
	return max(o.SessionIdle/4, time.Second)
}
