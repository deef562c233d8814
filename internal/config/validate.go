package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, ValidationIssue{
			Path:    "api.baseUrl",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.API.BaseURL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, ValidationIssue{
			Path:    "api.baseUrl",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		})
	}

	if cfg.API.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "api.timeoutSeconds",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.API.TimeoutSeconds),
		})
	}

	if cfg.Chat.RevealIntervalMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "chat.revealIntervalMs",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Chat.RevealIntervalMs),
		})
	}

	validArchives := []string{"none", "sqlite"}
	if cfg.Transcript.Archive != "" && !slices.Contains(validArchives, cfg.Transcript.Archive) {
		issues = append(issues, ValidationIssue{
			Path:    "transcript.archive",
			Message: fmt.Sprintf("must be one of %v, got %q", validArchives, cfg.Transcript.Archive),
		})
	}

	if cfg.DevServer.Port < 0 || cfg.DevServer.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "devServer.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.DevServer.Port),
		})
	}

	validBinds := []string{"loopback", "lan"}
	if cfg.DevServer.Bind != "" && !slices.Contains(validBinds, cfg.DevServer.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "devServer.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.DevServer.Bind),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	hookGroups := []struct {
		path    string
		entries []HookEntry
	}{
		{"hooks.messageSending", cfg.Hooks.MessageSending},
		{"hooks.messageReceived", cfg.Hooks.MessageReceived},
		{"hooks.sendFailed", cfg.Hooks.SendFailed},
		{"hooks.revealComplete", cfg.Hooks.RevealComplete},
	}
	for _, g := range hookGroups {
		for i, h := range g.entries {
			if h.Command == "" {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].command", g.path, i),
					Message: "command is required",
				})
			}
		}
	}

	return issues
}
