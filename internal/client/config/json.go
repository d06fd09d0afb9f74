package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/q42jaap/opvault/internal/flagx"
	"github.com/q42jaap/opvault/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling, using timex.Duration
// so intervals can be strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	AccountID      string         `json:"account_id"`
	Vault          string         `json:"vault"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags. If neither flag is set, nothing is loaded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.AccountID != "" {
		config.AccountID = c.AccountID
	}
	if c.Vault != "" {
		config.Vault = c.Vault
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}
