package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "api.baseUrl"},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host/api" }, "api.baseUrl"},
		{"negative timeout", func(c *Config) { c.API.TimeoutSeconds = -1 }, "api.timeoutSeconds"},
		{"negative reveal", func(c *Config) { c.Chat.RevealIntervalMs = -5 }, "chat.revealIntervalMs"},
		{"unknown archive", func(c *Config) { c.Transcript.Archive = "postgres" }, "transcript.archive"},
		{"port out of range", func(c *Config) { c.DevServer.Port = 70000 }, "devServer.port"},
		{"unknown bind", func(c *Config) { c.DevServer.Bind = "tailnet" }, "devServer.bind"},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"unknown style", func(c *Config) { c.Logging.ConsoleStyle = "fancy" }, "logging.consoleStyle"},
		{"empty hook command", func(c *Config) {
			c.Hooks.SendFailed = []HookEntry{{Command: "true"}, {}}
		}, "hooks.sendFailed[1].command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			issues := Validate(&cfg)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.path, issues[0].Path)
			assert.Contains(t, issues[0].String(), tt.path)
		})
	}
}
