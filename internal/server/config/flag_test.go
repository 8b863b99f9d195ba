package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-m", ":9100", "-s", "secret", "-t", "5",
				"-r", "-f", "4096", "-b", "4", "-l", "debug",
			},
			expected: &Config{
				EndpointAddr:            "127.0.0.1:9090",
				MetricsAddr:             ":9100",
				SecretKey:               "secret",
				SessionValidityDuration: 5 * time.Minute,
				RequireSession:          true,
				MaxFrameSize:            4096,
				BcryptCost:              4,
				LogLevel:                "debug",
			},
		},
		{
			name: "no flags keeps defaults",
			args: []string{"cmd"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				return c
			}(),
		},
		{
			name: "foreign flags ignored",
			args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-a", ":7000"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				c.EndpointAddr = ":7000"
				return c
			}(),
		},
		{name: "bad int", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			config.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_SessionValidityOnlyWhenGiven(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want time.Duration
	}{
		{"sub-minute value from file kept", []string{"cmd", "-a", ":8000"}, 30 * time.Second},
		{"explicit flag overrides", []string{"cmd", "-t", "2"}, 2 * time.Minute},
		{"explicit zero overrides", []string{"cmd", "-t=0"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}
			config.LoadDefaults()
			config.SessionValidityDuration = 30 * time.Second

			parseFlags(config)
			assert.Equal(t, tt.want, config.SessionValidityDuration)
		})
	}
}
