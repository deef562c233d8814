package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/relay/internal/config"
)

// DefaultCommandTimeout bounds a hook command when its entry sets none.
const DefaultCommandTimeout = 10 * time.Second

// CommandHandler returns a handler that runs command through the shell with
// the JSON-encoded payload on stdin.
func CommandHandler(command string, timeout time.Duration) Handler {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return func(ctx context.Context, p Payload) error {
		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdin = bytes.NewReader(input)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		// Children of the shell may outlive it and hold stderr open.
		cmd.WaitDelay = time.Second

		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return fmt.Errorf("%s exited %d: %s", command, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
			}
			return fmt.Errorf("%s: %w", command, err)
		}
		return nil
	}
}

// RegisterConfig registers a command handler for every configured hook entry.
// Handlers are named "config:<event>:<index>".
func (m *Manager) RegisterConfig(cfg config.HooksConfig) int {
	groups := []struct {
		event   string
		entries []config.HookEntry
	}{
		{EventMessageSending, cfg.MessageSending},
		{EventMessageReceived, cfg.MessageReceived},
		{EventSendFailed, cfg.SendFailed},
		{EventRevealComplete, cfg.RevealComplete},
	}

	n := 0
	for _, g := range groups {
		for i, e := range g.entries {
			if strings.TrimSpace(e.Command) == "" {
				continue
			}
			timeout := time.Duration(e.Timeout) * time.Millisecond
			m.On(g.event, fmt.Sprintf("config:%s:%d", g.event, i), CommandHandler(e.Command, timeout))
			n++
		}
	}
	return n
}
