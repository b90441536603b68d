package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	defaults := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    func() *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://h:9", "-p", "/", "-m", "inline", "-e", "abort", "-t", "10",
				"-l", "debug", "-f", "zap", "-s", "dark", "-w", "120"},
			expected: func() *Config {
				return &Config{
					APIBase: "http://h:9", ChatPath: "/", TransferMode: TransferInline,
					OnUploadError: UploadFailureAbort, RequestTimeout: 10 * time.Second,
					LogLevel: "debug", LogFormat: "zap", MarkdownStyle: "dark", WordWrap: 120,
				}
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "x.json", "-zzz", "-m", "none"},
			expected: func() *Config {
				c := defaults()
				c.TransferMode = TransferNone
				return c
			},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, expectPanic: true},
		{name: "bad mode", args: []string{"-m", "carrier-pigeon"}, expectPanic: true},
		{name: "bad policy", args: []string{"-e", "retry"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}
