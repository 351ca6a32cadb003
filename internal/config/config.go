// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped with this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SourcePath is the visits workbook read on every cache refresh.
	SourcePath string `koanf:"source_path"`

	// Sheet names the worksheet holding the visit rows.
	Sheet string `koanf:"sheet"`

	// CacheTTL bounds how long a loaded dataset is served before reloading.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// WatchSource invalidates the cache as soon as the workbook changes on disk.
	WatchSource bool `koanf:"watch_source"`

	// SessionTTL expires sessions idle for longer than this.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// MaxSessions caps live sessions; the least recently used is evicted.
	MaxSessions int `koanf:"max_sessions"`

	// CORSOrigins lists origins allowed to call the JSON API.
	CORSOrigins []string `koanf:"cors_origins"`

	// ChartWidth and ChartHeight size the rendered PNG charts in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// Schema overrides the accepted header names per field
	// (marker, person, center, date, hour, duration).
	Schema map[string][]string `koanf:"schema"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		SourcePath:  "visitas_FROCA.xlsx",
		Sheet:       "Datos",
		CacheTTL:    5 * time.Minute,
		SessionTTL:  30 * time.Minute,
		MaxSessions: 10_000,
		ChartWidth:  1024,
		ChartHeight: 480,
	}
}
