package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/postbox/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g. "0.0.0.0:8000")
//	-m string   metrics bind address (e.g. ":9100"), empty disables
//	-s string   session token secret
//	-t int      session validity, minutes
//	-r          require a session token for MESSAGE and DOWNLOAD
//	-f uint     maximum frame size, bytes
//	-b int      bcrypt cost
//	-l string   log level
//
// Panics on a malformed flag value.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-m", "-s", "-t", "-r", "-f", "-b", "-l"},
		"-r")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for the metrics endpoint")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")
	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")
	fs.BoolVar(&config.RequireSession, "r", config.RequireSession, "require session token")
	fs.UintVar(&config.MaxFrameSize, "f", config.MaxFrameSize, "maximum frame size (in bytes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given, so sub-minute values from JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		}
	})
}
