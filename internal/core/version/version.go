// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// ServiceName is reported by meta endpoints and logs
const ServiceName = "leadscore-api"

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'leadscore/internal/core/version.version=v0.1.0'
	// -X 'leadscore/internal/core/version.commit=abcd' -X 'leadscore/internal/core/version.date=2026-10-18'"
	return BuildInfo{
		Service: ServiceName,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
