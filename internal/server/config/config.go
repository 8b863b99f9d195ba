// Package config handles configuration for the postbox server, layering
// defaults, an optional JSON file and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/postbox/internal/protocol"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the postbox server.
//
// Fields:
//   - EndpointAddr: bind address of the TCP message endpoint.
//   - MetricsAddr: bind address of the Prometheus endpoint; empty disables it.
//   - SecretKey: HMAC secret for session tokens. Empty means a random key per process.
//   - SessionValidityDuration: lifetime of tokens issued on LOGIN.
//   - RequireSession: when set, MESSAGE and DOWNLOAD need a token for the acting user.
//   - MaxFrameSize: largest frame payload a client may announce, in bytes.
//   - BcryptCost: work factor for password hashes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr            string
	MetricsAddr             string
	SecretKey               string
	SessionValidityDuration time.Duration
	RequireSession          bool
	MaxFrameSize            uint
	BcryptCost              int
	LogLevel                string
}

// LoadDefaults populates Config with the stock settings.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "0.0.0.0:8000"
	c.MetricsAddr = ""
	c.SecretKey = ""
	c.SessionValidityDuration = 60 * time.Minute
	c.RequireSession = false
	c.MaxFrameSize = protocol.DefaultMaxFrameSize
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
