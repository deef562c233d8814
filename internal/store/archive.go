package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/relay/internal/domain"
)

// ErrSessionNotFound is returned when an archived session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord summarises one archived chat session.
type SessionRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId,omitempty"`
	MessageCount   int       `json:"messageCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SearchHit is one archived message matching a full-text query.
type SearchHit struct {
	SessionID string         `json:"sessionId"`
	Message   domain.Message `json:"message"`
	Rank      float64        `json:"rank"`
}

// Archive queries archived sessions.
type Archive struct {
	db *DB
}

// NewArchive returns an archive backed by db.
func NewArchive(db *DB) *Archive {
	return &Archive{db: db}
}

// Sessions lists sessions, most recently updated first. An empty userID lists
// every user's sessions. Limit of 0 defaults to 50.
func (a *Archive) Sessions(userID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.sql.Query(
		`SELECT s.id, s.user_id, s.conversation_id, s.created_at, s.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		 FROM sessions s
		 WHERE ? = '' OR s.user_id = ?
		 ORDER BY s.updated_at DESC, s.rowid DESC
		 LIMIT ?`,
		userID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Session returns one session with its messages.
func (a *Archive) Session(id string) (*SessionRecord, []domain.Message, error) {
	row := a.db.sql.QueryRow(
		`SELECT s.id, s.user_id, s.conversation_id, s.created_at, s.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		 FROM sessions s WHERE s.id = ?`, id,
	)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	msgs, err := loadMessages(a.db, id)
	if err != nil {
		return nil, nil, err
	}
	return &rec, msgs, nil
}

// DeleteSession removes a session and its messages.
func (a *Archive) DeleteSession(id string) error {
	res, err := a.db.sql.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Search finds archived messages matching an FTS5 query, best match first.
// Limit of 0 defaults to 20.
func (a *Archive) Search(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.sql.Query(
		`SELECT m.session_id, m.id, m.role, m.content, m.agent_type, m.reveal_state, m.timestamp, rank
		 FROM messages_fts
		 JOIN messages m ON m.seq = messages_fts.rowid
		 WHERE messages_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var hit SearchHit
		var id, role, content, agent, reveal, ts string
		if err := rows.Scan(&hit.SessionID, &id, &role, &content, &agent, &reveal, &ts, &hit.Rank); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hit.Message = decodeMessage(id, role, content, agent, reveal, ts)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var rec SessionRecord
	var createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.ConversationID, &createdAt, &updatedAt, &rec.MessageCount); err != nil {
		return rec, err
	}
	rec.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return rec, nil
}

func loadMessages(db *DB, sessionID string) ([]domain.Message, error) {
	rows, err := db.sql.Query(
		`SELECT id, role, content, agent_type, reveal_state, timestamp
		 FROM messages WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var id, role, content, agent, reveal, ts string
		if err := rows.Scan(&id, &role, &content, &agent, &reveal, &ts); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, decodeMessage(id, role, content, agent, reveal, ts))
	}
	return msgs, rows.Err()
}

func decodeMessage(id, role, content, agent, reveal, ts string) domain.Message {
	msg := domain.Message{
		ID:      id,
		Role:    domain.Role(role),
		Content: content,
		Reveal:  domain.RevealState(reveal),
	}
	// Tags written by an older client may no longer parse; show them as unattributed.
	msg.Agent, _ = domain.ParseAgentType(agent)
	msg.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
	return msg
}
