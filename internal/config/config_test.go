package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "http://localhost:3001/api", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.TimeoutSeconds)
	assert.Equal(t, 15, cfg.Chat.RevealIntervalMs)
	assert.Equal(t, "none", cfg.Transcript.Archive)
	assert.Equal(t, 3001, cfg.DevServer.Port)
	assert.Equal(t, "loopback", cfg.DevServer.Bind)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.User.ID)
}

func TestDurations(t *testing.T) {
	cfg := Defaults()
	assert.Zero(t, cfg.Timeout())
	assert.Equal(t, 15*time.Millisecond, cfg.RevealInterval())
}

func TestLoadKeepsZeroTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeoutSeconds: 0\nchat:\n  revealIntervalMs: 20\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout())
	assert.Equal(t, 20*time.Millisecond, cfg.RevealInterval())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
api:
  baseUrl: https://relay.example.com/api
  timeoutSeconds: 30
user:
  id: user-123
chat:
  revealIntervalMs: 5
transcript:
  archive: sqlite
  path: /tmp/relay.db
logging:
  level: debug
  consoleStyle: json
hooks:
  messageReceived:
    - command: "notify-send relay"
      timeout: 500
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://relay.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, "user-123", cfg.User.ID)
	assert.Equal(t, 5, cfg.Chat.RevealIntervalMs)
	assert.Equal(t, "sqlite", cfg.Transcript.Archive)
	assert.Equal(t, "/tmp/relay.db", cfg.Transcript.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.ConsoleStyle)
	require.Len(t, cfg.Hooks.MessageReceived, 1)
	assert.Equal(t, 500, cfg.Hooks.MessageReceived[0].Timeout)

	// untouched sections keep their defaults
	assert.Equal(t, 3001, cfg.DevServer.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadExpandsUserID(t *testing.T) {
	t.Setenv("RELAY_TEST_UID", "from-env")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user:\n  id: ${RELAY_TEST_UID}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.User.ID)
}

func TestLoadLeavesUnsetVarReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user:\n  id: ${RELAY_DEFINITELY_UNSET_VAR}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${RELAY_DEFINITELY_UNSET_VAR}", cfg.User.ID)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_API_URL", "http://127.0.0.1:9000/api/")
	t.Setenv("RELAY_USER_ID", "u-42")
	t.Setenv("RELAY_REVEAL_INTERVAL_MS", "1")
	t.Setenv("RELAY_LOG_LEVEL", "TRACE")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/api", cfg.API.BaseURL)
	assert.Equal(t, "u-42", cfg.User.ID)
	assert.Equal(t, 1, cfg.Chat.RevealIntervalMs)
	assert.Equal(t, "trace", cfg.Logging.Level)
}

func TestLoadRawAndSaveRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := map[string]any{
		"user": map[string]any{
			"id": "abc",
		},
	}

	require.NoError(t, SaveRaw(path, raw))

	loaded, err := LoadRaw(path)
	require.NoError(t, err)

	val, ok := GetValueAtPath(loaded, []string{"user", "id"})
	assert.True(t, ok)
	assert.Equal(t, "abc", val)
}

func TestLoadRawMissingFile(t *testing.T) {
	raw, err := LoadRaw(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestLoadRawEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	raw, err := LoadRaw(path)
	require.NoError(t, err)
	require.NotNil(t, raw)
	SetValueAtPath(raw, []string{"user", "id"}, "x")
}
