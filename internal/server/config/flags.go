package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address
//	-g string   gRPC health bind address, empty disables
//	-d string   database DSN
//	-b string   base path for upload folders
//	-s string   JWT secret key
//	-t int      admin token validity, minutes
//	-k string   storage backend (disk|s3)
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-b", "-s", "-t", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.HealthAddr, "g", config.HealthAddr, "gRPC health address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BasePath, "b", config.BasePath, "base path for upload folders")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidity.Minutes()), "admin token validity (in minutes)")
	fs.StringVar(&config.Storage, "k", config.Storage, "storage backend (disk|s3)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidity = time.Duration(*tokenValidity) * time.Minute
}
