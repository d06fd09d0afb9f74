package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, DriverMemory, c.StorageDriver)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, "admin", c.AccountID)
	assert.Equal(t, "admin", c.AccountSecret)
	assert.Equal(t, "", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, DriverMemory, c.StorageDriver)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
}

func TestParseEnv_OverridesOnlySetVariables(t *testing.T) {
	t.Setenv("OPVAULT_ADDRESS", ":9999")
	t.Setenv("OPVAULT_STORAGE_DRIVER", DriverSQLite)
	t.Setenv("OPVAULT_DATABASE_DSN", "vault.db")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, DriverSQLite, c.StorageDriver)
	assert.Equal(t, "vault.db", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey, "unset variables keep defaults")
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
}
