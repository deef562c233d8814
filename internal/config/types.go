package config

// Config is the root configuration for the relay chat client.
type Config struct {
	API        APIConfig        `yaml:"api,omitempty"`
	User       UserConfig       `yaml:"user,omitempty"`
	Chat       ChatConfig       `yaml:"chat,omitempty"`
	Transcript TranscriptConfig `yaml:"transcript,omitempty"`
	DevServer  DevServerConfig  `yaml:"devServer,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Hooks      HooksConfig      `yaml:"hooks,omitempty"`
}

// APIConfig points the client at the relay service.
type APIConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"` // response-header wait; 0 = no limit
}

// UserConfig carries the identity sent with every message.
type UserConfig struct {
	ID string `yaml:"id,omitempty"` // may reference ${ENV_VAR}
}

// ChatConfig tunes the interactive session.
type ChatConfig struct {
	RevealIntervalMs int `yaml:"revealIntervalMs,omitempty"` // per-character reveal delay
}

// TranscriptConfig controls local archiving of transcripts.
type TranscriptConfig struct {
	Archive string `yaml:"archive,omitempty"` // "none" | "sqlite"
	Path    string `yaml:"path,omitempty"`    // defaults to <data>/transcripts.db
}

// DevServerConfig configures the local stand-in relay service.
type DevServerConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // "loopback" | "lan"
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// HooksConfig defines commands run on transcript events.
type HooksConfig struct {
	MessageSending  []HookEntry `yaml:"messageSending,omitempty"`
	MessageReceived []HookEntry `yaml:"messageReceived,omitempty"`
	SendFailed      []HookEntry `yaml:"sendFailed,omitempty"`
	RevealComplete  []HookEntry `yaml:"revealComplete,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
