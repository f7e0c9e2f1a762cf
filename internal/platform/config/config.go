// Package config handles application configuration via environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"leadscore/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, eg "CORE_API_" or "SERVICE_PGSQL_"
// Must* accessors panic through the logger, May* accessors warn and fall back to a default
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// get returns the trimmed value and the full key
func (c Conf) get(key string) (string, string) {
	k := c.key(key)
	return strings.TrimSpace(os.Getenv(k)), k
}

func (c Conf) must(key string) (string, string) {
	v, k := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return v, k
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v, _ := c.must(key)
	return v
}

// MustSecret panics if the key is missing or shorter than minLen; the value is never logged
func (c Conf) MustSecret(key string, minLen int) string {
	v, k := c.must(key)
	if len(v) < minLen {
		logger.Get().Panic().Str("key", k).Int("min_len", minLen).Msg("secret too short")
	}
	return v
}

// MustDuration panics if the given key is missing, empty, or not a valid duration
func (c Conf) MustDuration(key string) time.Duration {
	s, k := c.must(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Get().Panic().Str("key", k).Str("value", s).Msg("invalid duration (e.g., 250ms, 2s, 1h)")
	}
	return d
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v, _ := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", k).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", k).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	logger.Get().Warn().Str("key", k).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s, _ := c.get(key)
	if s == "" {
		return def
	}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayLocation loads an IANA zone such as Europe/Berlin; "Local" or empty yields def
// calendar days for the dashboard are computed in this zone
func (c Conf) MayLocation(key string, def *time.Location) *time.Location {
	s, k := c.get(key)
	if s == "" || s == "Local" {
		return def
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		logger.Get().Warn().Str("key", k).Str("value", s).Err(err).Msg("invalid time zone; using default")
		return def
	}
	return loc
}
