package module

import (
	"time"

	"leadscore/internal/platform/config"
)

// Options holds configuration settings for the leads module
type Options struct {
	ListLimit        int
	StatementTimeout time.Duration
	MirrorTable      string
}

// FromConfig reads LEADS_ settings
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("LEADS_")
	return Options{
		ListLimit:        lc.MayInt("LIST_LIMIT", 50),
		StatementTimeout: lc.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
		MirrorTable:      lc.MayString("MIRROR_TABLE", "lead_events"),
	}
}
