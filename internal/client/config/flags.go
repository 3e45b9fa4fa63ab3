package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend API base URL (overrides the environment choice)
//	-e string   environment: production or development
//	-o string   origin for shareable report links
//	-d string   local database path
//	-l string   log level
//	-i int      online check interval (seconds)
//	-t int      public request timeout (seconds)
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by the
// command tree do not break parsing here.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-o", "-d", "-l", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "backend API base URL")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment (production|development)")
	fs.StringVar(&cfg.ShareOrigin, "o", cfg.ShareOrigin, "origin for shareable report links")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	publicTimeout := fs.Int("t", int(cfg.PublicRequestTimeout.Seconds()), "public request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.PublicRequestTimeout = time.Duration(*publicTimeout) * time.Second
}
