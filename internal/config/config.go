package config

import (
	"fmt"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	DefaultBaseURL          = "http://localhost:3001/api"
	DefaultRevealIntervalMs = 15
	DefaultDevServerPort    = 3001
)

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Chat: ChatConfig{
			RevealIntervalMs: DefaultRevealIntervalMs,
		},
		Transcript: TranscriptConfig{
			Archive: "none",
		},
		DevServer: DevServerConfig{
			Port: DefaultDevServerPort,
			Bind: "loopback",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// Timeout returns how long to wait for the relay service's response headers.
// Zero means no limit.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RevealInterval returns the per-character reveal delay.
func (c Config) RevealInterval() time.Duration {
	return time.Duration(c.Chat.RevealIntervalMs) * time.Millisecond
}
