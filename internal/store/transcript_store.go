package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/relay/internal/domain"
)

// TranscriptStore archives one chat session. It implements transcript.Store;
// write failures are logged rather than returned.
type TranscriptStore struct {
	db        *DB
	sessionID string
}

// NewSession creates a session row for userID and returns its store.
func (a *Archive) NewSession(userID string) (*TranscriptStore, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.DateTime)
	_, err := a.db.sql.Exec(
		`INSERT INTO sessions (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, userID, now, now,
	)
	if err != nil {
		return nil, err
	}
	a.db.log.Debug().Str("session", id).Str("user", userID).Msg("archive session started")
	return &TranscriptStore{db: a.db, sessionID: id}, nil
}

// SessionID returns the archive id of this session.
func (s *TranscriptStore) SessionID() string {
	return s.sessionID
}

// Append adds a message to the session.
func (s *TranscriptStore) Append(msg domain.Message) {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO messages (id, session_id, role, content, agent_type, reveal_state, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, s.sessionID, string(msg.Role), msg.Content, string(msg.Agent),
		string(msg.Reveal), ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", s.sessionID).Msg("failed to append message")
		return
	}

	s.touch()
}

// MarkComplete flips a revealing message to complete.
func (s *TranscriptStore) MarkComplete(id string) {
	_, err := s.db.sql.Exec(
		`UPDATE messages SET reveal_state = ? WHERE id = ? AND session_id = ? AND reveal_state != ?`,
		string(domain.RevealComplete), id, s.sessionID, string(domain.RevealComplete),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("message", id).Msg("failed to mark message complete")
	}
}

// List returns the session's messages in insertion order.
func (s *TranscriptStore) List() []domain.Message {
	msgs, err := loadMessages(s.db, s.sessionID)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", s.sessionID).Msg("failed to load messages")
		return nil
	}
	return msgs
}

// BindConversation records the server conversation this session talks to.
func (s *TranscriptStore) BindConversation(conversationID string) {
	_, err := s.db.sql.Exec(
		`UPDATE sessions SET conversation_id = ? WHERE id = ?`, conversationID, s.sessionID,
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", s.sessionID).Msg("failed to bind conversation")
	}
}

func (s *TranscriptStore) touch() {
	_, _ = s.db.sql.Exec(
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.DateTime), s.sessionID,
	)
}
