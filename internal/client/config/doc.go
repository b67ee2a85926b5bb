// Package config loads runtime configuration for the linkdrop upload client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   upload endpoint URL, e.g. http://host:8080/upload/<token>
//	-f string   multipart field name for files
//	-i int      processing animation interval (milliseconds)
//	-t int      request timeout (seconds)
//	-x string   SOCKS5 proxy address
//	-r int      upload rate limit (bytes per second, 0 = unlimited)
//	-p string   failure policy: retain or clear
//	-g string   gRPC health address of the server (empty disables the watcher)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds. Keys that are absent keep their earlier value:
//
//	{
//	  "endpoint_url": "http://127.0.0.1:8080/upload/AbC",
//	  "field_name": "file",
//	  "password_field": "link_password",
//	  "dot_interval": "500ms",
//	  "timeout": "90s",
//	  "proxy_addr": "127.0.0.1:1080",
//	  "rate_limit": 0,
//	  "failure_policy": "retain",
//	  "failed_entry_ttl": "0s",
//	  "allow_html_fallback": true,
//	  "health_addr": "127.0.0.1:9090",
//	  "online_check_interval": "3s",
//	  "log_level": "warn"
//	}
package config
