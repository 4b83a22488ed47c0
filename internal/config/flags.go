package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/kasa/internal/flagx"
)

// parseFlags overlays Config with command-line flags.
//
//	-d string     vault database path
//	-l duration   idle auto-lock interval
//	-v            switch logging to debug level
//
// Only these flags are read from os.Args (see flagx.FilterArgs) so the -c
// config flag and anything else on the command line do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-v"}, "-v")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the vault database file")
	fs.DurationVar(&cfg.AutoLockAfter, "l", cfg.AutoLockAfter, "auto-lock after idle duration (0 disables)")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *verbose {
		cfg.LogLevel = "debug"
	}
}
