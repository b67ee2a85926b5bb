// Package config handles configuration for the upload-link server:
// defaults, a .env file and LINKDROP_* environment variables, a JSON
// overlay and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Storage backends accepted by Config.Storage.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// Config holds runtime settings for the linkdrop server.
//
//   - DatabaseDSN: a postgres:// URL selects PostgreSQL, anything else is a
//     SQLite file path.
//   - BasePath: every upload folder must resolve inside it.
//   - SecretKey: HMAC secret for admin JWTs (HS256).
//   - MaxUploadSize: request body cap in bytes, 0 disables the cap.
//   - Users: administrators seeded at startup, username -> password.
//   - PublicURL: prefix for the upload URLs handed out by the admin API.
//     Empty means it is derived from the request.
type Config struct {
	HTTPAddr       string
	HealthAddr     string
	DatabaseDSN    string
	BasePath       string
	SecretKey      string
	TokenValidity  time.Duration
	Storage        string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	MaxUploadSize  int64
	Users          map[string]string
	PublicURL      string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.HealthAddr = ""
	c.DatabaseDSN = "db/linkdrop.db"
	c.BasePath = "uploads"
	c.SecretKey = "secretKey"
	c.TokenValidity = 60 * time.Minute
	c.Storage = StorageDisk
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "uploads"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.MaxUploadSize = 0
	c.Users = map[string]string{}
	c.PublicURL = ""
	c.LogLevel = "info"
}

// Validate reports the first setting the server cannot run with.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http address is required (-a)")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required (-d)")
	}
	if c.BasePath == "" {
		return errors.New("base path is required (-b)")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required (-s)")
	}
	if c.TokenValidity <= 0 {
		return errors.New("token validity must be positive")
	}
	if c.MaxUploadSize < 0 {
		return errors.New("max upload size must not be negative")
	}
	switch c.Storage {
	case StorageDisk:
	case StorageS3:
		if c.S3Bucket == "" {
			return errors.New("s3 storage needs a bucket")
		}
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageDisk, StorageS3)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
