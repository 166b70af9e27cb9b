// Package config defines service configuration and its loading order.
package config

import "time"

// Config contains process configuration for the review service.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// JWTSigningKey signs session tokens issued at login.
	JWTSigningKey string `koanf:"jwt_signing_key"`

	// TokenTTLMinutes bounds session token lifetime.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`

	// DataFile is the JSON file used by the file-backed record store.
	DataFile string `koanf:"data_file"`

	// MongoURI switches persistence to MongoDB when non-empty.
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`

	// AuthorizedIDs lists access credentials accepted at login.
	// AuthorizedIDsFile, when set, is read instead (one ID per line).
	AuthorizedIDs     []string `koanf:"authorized_ids"`
	AuthorizedIDsFile string   `koanf:"authorized_ids_file"`

	// LoginRateLimit caps login attempts per client within LoginRateWindowSec.
	LoginRateLimit     int `koanf:"login_rate_limit"`
	LoginRateWindowSec int `koanf:"login_rate_window_sec"`
}

// TokenTTL returns the session token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// LoginRateWindow returns the login rate-limit window as a duration.
func (c *Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSec) * time.Second
}

// New returns a Config populated with defaults. Load layers file and env
// values on top.
func New() *Config {
	return &Config{
		Addr:               ":3000",
		LogLevel:           "info",
		JWTSigningKey:      "dev-secret-key-change-in-production",
		TokenTTLMinutes:    12 * 60,
		DataFile:           "data/db.json",
		MongoDatabase:      "signalviz",
		MongoCollection:    "assessments",
		LoginRateLimit:     10,
		LoginRateWindowSec: 60,
	}
}
