package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Failure policy names accepted by FailurePolicy.
const (
	PolicyRetain = "retain"
	PolicyClear  = "clear"
)

// Config holds runtime settings for the linkdrop upload client.
//
// Units: DotInterval, Timeout, FailedEntryTTL and OnlineCheckInterval are
// time.Duration values; RateLimit is bytes per second.
type Config struct {
	EndpointURL         string
	FieldName           string
	PasswordField       string
	DotInterval         time.Duration
	Timeout             time.Duration
	ProxyAddr           string
	RateLimit           int
	FailurePolicy       string
	FailedEntryTTL      time.Duration
	AllowHTMLFallback   bool
	HealthAddr          string
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointURL = ""
	c.FieldName = "file"
	c.PasswordField = "link_password"
	c.DotInterval = 500 * time.Millisecond
	c.Timeout = 90 * time.Second
	c.ProxyAddr = ""
	c.RateLimit = 0
	c.FailurePolicy = PolicyRetain
	c.FailedEntryTTL = 0
	c.AllowHTMLFallback = true
	c.HealthAddr = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
}

// Validate reports the first setting the client cannot run with.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return errors.New("upload endpoint URL is required (-u)")
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid upload endpoint URL %q", c.EndpointURL)
	}
	if c.FieldName == "" {
		return errors.New("file field name must not be empty")
	}
	if c.FailurePolicy != PolicyRetain && c.FailurePolicy != PolicyClear {
		return fmt.Errorf("unknown failure policy %q (want %s or %s)", c.FailurePolicy, PolicyRetain, PolicyClear)
	}
	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
