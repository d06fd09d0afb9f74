package config

import (
	"flag"
	"os"
	"time"

	"github.com/q42jaap/opvault/internal/flagx"
)

// parseFlags populates selected CLI Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the vault server (e.g., "http://127.0.0.1:8080")
//	-n string   service account identifier
//	-v string   default vault for new items
//	-i int      request timeout, seconds
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-n", "-v", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "server base URL")
	fs.StringVar(&config.AccountID, "n", config.AccountID, "service account id")
	fs.StringVar(&config.Vault, "v", config.Vault, "default vault")

	timeout := fs.Int("i", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*timeout) * time.Second
}
