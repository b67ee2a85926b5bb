package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/linkdrop/internal/flagx"
	"github.com/dmitrijs2005/linkdrop/internal/timex"
)

// JsonConfig is the DTO read from the -c/-config file. Pointer fields keep
// values from earlier sources when a key is absent.
type JsonConfig struct {
	HTTPAddr       *string           `json:"http_addr"`
	HealthAddr     *string           `json:"health_addr"`
	DatabaseDSN    *string           `json:"database_dsn"`
	BasePath       *string           `json:"base_path"`
	SecretKey      *string           `json:"secret_key"`
	TokenValidity  *timex.Duration   `json:"token_validity"`
	Storage        *string           `json:"storage"`
	S3AccessKey    *string           `json:"s3_access_key"`
	S3SecretKey    *string           `json:"s3_secret_key"`
	S3Bucket       *string           `json:"s3_bucket"`
	S3Region       *string           `json:"s3_region"`
	S3BaseEndpoint *string           `json:"s3_base_endpoint"`
	MaxUploadSize  *int64            `json:"max_upload_size"`
	Users          map[string]string `json:"users"`
	PublicURL      *string           `json:"public_url"`
	LogLevel       *string           `json:"log_level"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Read or unmarshal errors panic. Users from the file are merged into the
// existing map.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	setString(&cfg.HealthAddr, jc.HealthAddr)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.BasePath, jc.BasePath)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.Storage, jc.Storage)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.PublicURL, jc.PublicURL)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.TokenValidity != nil {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *jc.MaxUploadSize
	}
	if len(jc.Users) > 0 {
		if cfg.Users == nil {
			cfg.Users = make(map[string]string, len(jc.Users))
		}
		for name, pass := range jc.Users {
			cfg.Users[name] = pass
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
