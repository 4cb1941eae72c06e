// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite history database file.
	DBPath string `koanf:"db_path"`

	// ScorerCommand is the path of the external scoring executable.
	ScorerCommand string `koanf:"scorer_command"`

	// ScorerTimeoutMS bounds one scorer invocation in milliseconds.
	ScorerTimeoutMS int `koanf:"scorer_timeout_ms"`

	// CORSAllowOrigin is the Access-Control-Allow-Origin value; empty
	// disables CORS headers entirely.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DBPath:          "mental_check_history.db",
		ScorerCommand:   "./scorer",
		ScorerTimeoutMS: 5000,
		CORSAllowOrigin: "*",
	}
}
