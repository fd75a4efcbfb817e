package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smehub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-d string   path to the local SQLite cache
//	-r string   directory for downloaded reports
//	-l string   log format (console, json, text)
//
// os.Args is filtered with flagx.FilterArgs so flags meant for other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local cache database")
	fs.StringVar(&cfg.ReportsDir, "r", cfg.ReportsDir, "directory for downloaded reports")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format: console, json or text")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
