package config

import "time"

// Config holds runtime settings for the vault CLI.
//
// Fields:
//   - ServerURL: base URL of the vault server HTTP API.
//   - AccountID: service account used by the session endpoint.
//   - Vault: default vault identifier for new items.
//   - RequestTimeout: per-request timeout for API calls.
type Config struct {
	ServerURL      string        `env:"OPVAULT_SERVER_URL"`
	AccountID      string        `env:"OPVAULT_ACCOUNT_ID"`
	Vault          string        `env:"OPVAULT_VAULT"`
	RequestTimeout time.Duration `env:"OPVAULT_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.AccountID = "admin"
	c.Vault = "Personal"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
