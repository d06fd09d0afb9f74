// Package config handles configuration for the vault server, layering
// defaults, an optional JSON file, environment variables (including a
// local .env file) and command-line flags, in that order.
package config

import "time"

// Storage driver names accepted in Config.StorageDriver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the vault server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - StorageDriver: one of "memory", "sqlite", "postgres".
//   - DatabaseDSN: SQLite path or PostgreSQL DSN, depending on the driver.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - AccountID / AccountSecret: the service account accepted by the
//     session endpoint. The secret is hashed at startup, never stored.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for file attachments. An empty bucket
//     disables attachments.
type Config struct {
	EndpointAddr          string        `env:"OPVAULT_ADDRESS"`
	StorageDriver         string        `env:"OPVAULT_STORAGE_DRIVER"`
	DatabaseDSN           string        `env:"OPVAULT_DATABASE_DSN"`
	SecretKey             string        `env:"OPVAULT_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"OPVAULT_TOKEN_VALIDITY"`
	AccountID             string        `env:"OPVAULT_ACCOUNT_ID"`
	AccountSecret         string        `env:"OPVAULT_ACCOUNT_SECRET"`
	S3AccessKey           string        `env:"OPVAULT_S3_ACCESS_KEY"`
	S3SecretKey           string        `env:"OPVAULT_S3_SECRET_KEY"`
	S3Bucket              string        `env:"OPVAULT_S3_BUCKET"`
	S3Region              string        `env:"OPVAULT_S3_REGION"`
	S3BaseEndpoint        string        `env:"OPVAULT_S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.StorageDriver = DriverMemory
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * time.Minute
	c.AccountID = "admin"
	c.AccountSecret = "admin"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
