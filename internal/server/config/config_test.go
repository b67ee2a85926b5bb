package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, "", c.HealthAddr)
	assert.Equal(t, "db/linkdrop.db", c.DatabaseDSN)
	assert.Equal(t, "uploads", c.BasePath)
	assert.Equal(t, 60*time.Minute, c.TokenValidity)
	assert.Equal(t, StorageDisk, c.Storage)
	assert.Equal(t, int64(0), c.MaxUploadSize)
	assert.NotNil(t, c.Users)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsWithoutSources(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	c := LoadConfig()
	require.NotNil(t, c)
	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, StorageDisk, c.Storage)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"ok", func(c *Config) {}, ""},
		{"no addr", func(c *Config) { c.HTTPAddr = "" }, "http address is required (-a)"},
		{"no dsn", func(c *Config) { c.DatabaseDSN = "" }, "database DSN is required (-d)"},
		{"no base", func(c *Config) { c.BasePath = "" }, "base path is required (-b)"},
		{"no secret", func(c *Config) { c.SecretKey = "" }, "secret key is required (-s)"},
		{"zero validity", func(c *Config) { c.TokenValidity = 0 }, "token validity must be positive"},
		{"negative size", func(c *Config) { c.MaxUploadSize = -1 }, "max upload size must not be negative"},
		{"bad storage", func(c *Config) { c.Storage = "ftp" }, `unknown storage "ftp" (want disk or s3)`},
		{"s3 without bucket", func(c *Config) { c.Storage = StorageS3; c.S3Bucket = "" }, "s3 storage needs a bucket"},
		{"s3 ok", func(c *Config) { c.Storage = StorageS3 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}
