package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/postbox/internal/flagx"
	"github.com/dmitrijs2005/postbox/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations go through
// timex.Duration so "90m" and integer nanoseconds both work. Pointers tell
// "absent" apart from zero values, so a file may set only some fields.
type JsonConfig struct {
	EndpointAddr            *string         `json:"endpoint_addr"`
	MetricsAddr             *string         `json:"metrics_addr"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	RequireSession          *bool           `json:"require_session"`
	MaxFrameSize            *uint           `json:"max_frame_size"`
	BcryptCost              *int            `json:"bcrypt_cost"`
	LogLevel                *string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c/-config, if any.
// It panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.RequireSession != nil {
		config.RequireSession = *c.RequireSession
	}
	if c.MaxFrameSize != nil {
		config.MaxFrameSize = *c.MaxFrameSize
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
