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

	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name        string
		args        []string
		expected    func() *Config
		expectPanic bool
	}{
		{
			name:     "no flags keeps defaults",
			args:     []string{"kasa"},
			expected: base,
		},
		{
			name: "database and auto-lock",
			args: []string{"kasa", "-d", "/tmp/v.db", "-l", "90s"},
			expected: func() *Config {
				c := base()
				c.DatabasePath = "/tmp/v.db"
				c.AutoLockAfter = 90 * time.Second
				return c
			},
		},
		{
			name: "verbose switches to debug",
			args: []string{"kasa", "-v", "-c", "ignored.json"},
			expected: func() *Config {
				c := base()
				c.LogLevel = "debug"
				return c
			},
		},
		{
			name: "auto-lock disabled",
			args: []string{"kasa", "-l", "0"},
			expected: func() *Config {
				c := base()
				c.AutoLockAfter = 0
				return c
			},
		},
		{
			name:        "incorrect duration",
			args:        []string{"kasa", "-l", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := base()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}
