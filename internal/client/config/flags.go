package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/postbox/internal/flagx"
)

// parseFlags overlays cfg with -a and -i. Other arguments are ignored.
// Panics on a malformed value.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the postbox server")
	timeout := fs.Int("i", int(cfg.Timeout.Seconds()), "dial and request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.Timeout = time.Duration(*timeout) * time.Second
		}
	})
}
