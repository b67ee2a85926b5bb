package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/linkdrop/internal/flagx"
	"github.com/dmitrijs2005/linkdrop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields tell an absent key from a zero value.
type JsonConfig struct {
	EndpointURL         *string         `json:"endpoint_url"`
	FieldName           *string         `json:"field_name"`
	PasswordField       *string         `json:"password_field"`
	DotInterval         *timex.Duration `json:"dot_interval"`
	Timeout             *timex.Duration `json:"timeout"`
	ProxyAddr           *string         `json:"proxy_addr"`
	RateLimit           *int            `json:"rate_limit"`
	FailurePolicy       *string         `json:"failure_policy"`
	FailedEntryTTL      *timex.Duration `json:"failed_entry_ttl"`
	AllowHTMLFallback   *bool           `json:"allow_html_fallback"`
	HealthAddr          *string         `json:"health_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without one it does nothing. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.EndpointURL, jc.EndpointURL)
	setString(&cfg.FieldName, jc.FieldName)
	setString(&cfg.PasswordField, jc.PasswordField)
	setString(&cfg.ProxyAddr, jc.ProxyAddr)
	setString(&cfg.FailurePolicy, jc.FailurePolicy)
	setString(&cfg.HealthAddr, jc.HealthAddr)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.DotInterval != nil {
		cfg.DotInterval = jc.DotInterval.Duration
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.FailedEntryTTL != nil {
		cfg.FailedEntryTTL = jc.FailedEntryTTL.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.AllowHTMLFallback != nil {
		cfg.AllowHTMLFallback = *jc.AllowHTMLFallback
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
