package config

import "time"

// Config holds runtime settings for the postbox CLI.
type Config struct {
	ServerEndpointAddr string
	Timeout            time.Duration
}

// LoadDefaults populates c with the stock settings.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:8000"
	c.Timeout = 5 * time.Second
}

// LoadConfig constructs a Config from defaults, JSON and flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
