package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/postbox/internal/flagx"
	"github.com/dmitrijs2005/postbox/internal/timex"
)

// JsonConfig is the on-disk form of Config. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	Timeout            *timex.Duration `json:"timeout"`
}

// parseJson overlays cfg with the file named by -c/-config, if any. It panics
// on read or parse errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
}
