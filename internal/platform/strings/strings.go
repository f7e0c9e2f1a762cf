// Package strings provides small string helpers shared by services and repos
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /auth or /leads
// one leading slash, no trailing slash, panics when nothing is left
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// TrimAll trims surrounding whitespace of every target in place
func TrimAll(targets ...*string) {
	for _, p := range targets {
		if p != nil {
			*p = std.TrimSpace(*p)
		}
	}
}

// SQLNull returns nil if s is blank, else s, for query args where NULL is wanted
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
