package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions and messages",
		SQL: `
			CREATE TABLE sessions (
				id               TEXT PRIMARY KEY,
				user_id          TEXT NOT NULL,
				conversation_id  TEXT NOT NULL DEFAULT '',
				created_at       TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_sessions_user ON sessions (user_id, updated_at);

			CREATE TABLE messages (
				seq           INTEGER PRIMARY KEY AUTOINCREMENT,
				id            TEXT NOT NULL UNIQUE,
				session_id    TEXT NOT NULL,
				role          TEXT NOT NULL,
				content       TEXT NOT NULL,
				agent_type    TEXT NOT NULL DEFAULT '',
				reveal_state  TEXT NOT NULL,
				timestamp     TEXT NOT NULL,
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
			);

			CREATE INDEX idx_messages_session ON messages (session_id, seq);
		`,
	},
	{
		Version: 2,
		Name:    "full-text index over message content",
		SQL: `
			CREATE VIRTUAL TABLE messages_fts USING fts5(
				content,
				content='messages',
				content_rowid='seq'
			);

			CREATE TRIGGER messages_ai AFTER INSERT ON messages BEGIN
				INSERT INTO messages_fts(rowid, content) VALUES (new.seq, new.content);
			END;

			CREATE TRIGGER messages_ad AFTER DELETE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, content)
				VALUES ('delete', old.seq, old.content);
			END;

			CREATE TRIGGER messages_au AFTER UPDATE OF content ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, content)
				VALUES ('delete', old.seq, old.content);
				INSERT INTO messages_fts(rowid, content) VALUES (new.seq, new.content);
			END;
		`,
	},
}
