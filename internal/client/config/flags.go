package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-f", "-i", "-t", "-x", "-r", "-p", "-g", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointURL, "u", cfg.EndpointURL, "upload endpoint URL")
	fs.StringVar(&cfg.FieldName, "f", cfg.FieldName, "multipart field name for files")
	dotInterval := fs.Int("i", int(cfg.DotInterval.Milliseconds()), "processing animation interval (in milliseconds)")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.ProxyAddr, "x", cfg.ProxyAddr, "SOCKS5 proxy address")
	fs.IntVar(&cfg.RateLimit, "r", cfg.RateLimit, "upload rate limit in bytes per second")
	fs.StringVar(&cfg.FailurePolicy, "p", cfg.FailurePolicy, "failure policy (retain|clear)")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "gRPC health address of the server")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DotInterval = time.Duration(*dotInterval) * time.Millisecond
	cfg.Timeout = time.Duration(*timeout) * time.Second
}
