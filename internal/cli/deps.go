package cli

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/store"
	"github.com/soyeahso/relay/internal/transport"
)

// loadConfig reads the config file and applies the --user override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}
	if userID != "" {
		cfg.User.ID = userID
	}
	return cfg, nil
}

func newClient(cfg config.Config) *transport.Client {
	return transport.New(transport.Config{
		BaseURL:       cfg.API.BaseURL,
		HeaderTimeout: cfg.Timeout(),
	}, log)
}

func requireUser(cfg config.Config) (string, error) {
	if cfg.User.ID == "" {
		return "", errors.Wrap(transport.ErrUnauthenticated, "set user.id, RELAY_USER_ID or --user")
	}
	return cfg.User.ID, nil
}

// openArchive opens the SQLite transcript archive at the configured path.
func openArchive(cfg config.Config) (*store.DB, *store.Archive, error) {
	db, err := store.Open(archivePath(cfg), log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript archive: %w", err)
	}
	return db, store.NewArchive(db), nil
}

func archivePath(cfg config.Config) string {
	if cfg.Transcript.Path != "" {
		return cfg.Transcript.Path
	}
	return paths.TranscriptDB()
}
