package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/echovault/internal/flagx"
)

var ownFlags = []string{"-d", "-r", "-t", "-s", "-l", "-f"}

func configFile(args []string) string {
	return flagx.ConfigFileFlag(args)
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   local SQLite database path
//	-r string   Postgres records DSN
//	-t string   default theme (system, light, dark)
//	-s string   color-scheme file to watch
//	-l string   log level
//	-f string   log format (json, text, console)
//
// Only these flags are parsed; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("echovault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.RecordsDSN, "r", cfg.RecordsDSN, "postgres records DSN")
	fs.StringVar(&cfg.DefaultTheme, "t", cfg.DefaultTheme, "default theme")
	fs.StringVar(&cfg.ColorSchemeFile, "s", cfg.ColorSchemeFile, "color-scheme file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}
