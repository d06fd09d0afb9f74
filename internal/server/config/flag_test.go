package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":6060",
		"-store", DriverSQLite,
		"-d", "items.db",
		"-s", "flag-secret",
		"-t", "5",
		"-b", "flag-bucket",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddr)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "items.db", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "flag-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region, "unset flags keep prior values")
}

func Test_parseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-unknown", "x", "-a", ":7071"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7071", cfg.EndpointAddr)
}
