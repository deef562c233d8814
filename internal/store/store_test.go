package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/logging"
	"github.com/soyeahso/relay/internal/transcript"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(MemoryPath, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newSession(t *testing.T, a *Archive, userID string) *TranscriptStore {
	t.Helper()
	ts, err := a.NewSession(userID)
	require.NoError(t, err)
	return ts
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transcripts.db")
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, v)
}

func TestOpen_Pragmas(t *testing.T) {
	db := testDB(t)

	var fk, busy int
	require.NoError(t, db.sql.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.NoError(t, db.sql.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 1, fk)
	assert.Equal(t, 5000, busy)
}

func TestOpen_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	log := logging.New(nil, "silent")

	first, err := Open(path, log)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path, log)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, path, second.Path())
	v, err := second.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"sessions", "messages", "messages_fts"}
	for _, table := range tables {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

// --- Transcript store tests ---

func TestTranscriptStore_ImplementsInterfaces(t *testing.T) {
	var _ transcript.Store = (*TranscriptStore)(nil)
	var _ transcript.ConversationBinder = (*TranscriptStore)(nil)
}

func TestTranscriptStore_AppendAndList(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")

	u := domain.NewUserMessage("Where is my order #ORD-2026-1001?")
	sys := domain.NewSystemMessage("Order keywords detected")
	asst := domain.NewAssistantMessage("It shipped **yesterday**.", domain.AgentOrder)
	ts.Append(u)
	ts.Append(sys)
	ts.Append(asst)

	msgs := ts.List()
	require.Len(t, msgs, 3)
	assert.Equal(t, u.ID, msgs[0].ID)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, u.Content, msgs[0].Content)
	assert.True(t, u.Timestamp.Equal(msgs[0].Timestamp))

	assert.Equal(t, domain.RoleSystem, msgs[1].Role)
	assert.Equal(t, domain.AgentNone, msgs[1].Agent)

	assert.Equal(t, domain.RoleAssistant, msgs[2].Role)
	assert.Equal(t, domain.AgentOrder, msgs[2].Agent)
	assert.Equal(t, domain.RevealRevealing, msgs[2].Reveal)
}

func TestTranscriptStore_List_Empty(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")
	assert.Empty(t, ts.List())
}

func TestTranscriptStore_MarkComplete(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")

	asst := domain.NewAssistantMessage("hello", domain.AgentSupport)
	ts.Append(asst)
	ts.MarkComplete(asst.ID)
	ts.MarkComplete(asst.ID)
	ts.MarkComplete("missing")

	msgs := ts.List()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RevealComplete, msgs[0].Reveal)
}

func TestTranscriptStore_SessionsAreIsolated(t *testing.T) {
	a := NewArchive(testDB(t))
	s1 := newSession(t, a, "u1")
	s2 := newSession(t, a, "u1")

	s1.Append(domain.NewUserMessage("one"))
	s2.Append(domain.NewUserMessage("two"))
	s2.Append(domain.NewUserMessage("three"))

	assert.Len(t, s1.List(), 1)
	assert.Len(t, s2.List(), 2)
	assert.NotEqual(t, s1.SessionID(), s2.SessionID())
}

func TestTranscriptStore_BindConversation(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")
	ts.BindConversation("c42")

	rec, _, err := a.Session(ts.SessionID())
	require.NoError(t, err)
	assert.Equal(t, "c42", rec.ConversationID)
}

// --- Archive tests ---

func TestArchive_Sessions(t *testing.T) {
	a := NewArchive(testDB(t))
	s1 := newSession(t, a, "u1")
	s1.Append(domain.NewUserMessage("hi"))
	s1.Append(domain.NewSystemMessage("note"))
	newSession(t, a, "u2")

	all, err := a.Sessions("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := a.Sessions("u1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s1.SessionID(), mine[0].ID)
	assert.Equal(t, 2, mine[0].MessageCount)
	assert.False(t, mine[0].CreatedAt.IsZero())

	limited, err := a.Sessions("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestArchive_Sessions_Empty(t *testing.T) {
	a := NewArchive(testDB(t))
	got, err := a.Sessions("", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArchive_Session_NotFound(t *testing.T) {
	a := NewArchive(testDB(t))
	_, _, err := a.Session("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestArchive_DeleteSession(t *testing.T) {
	db := testDB(t)
	a := NewArchive(db)
	ts := newSession(t, a, "u1")
	ts.Append(domain.NewUserMessage("hi"))

	require.NoError(t, a.DeleteSession(ts.SessionID()))
	assert.ErrorIs(t, a.DeleteSession(ts.SessionID()), ErrSessionNotFound)

	var count int
	require.NoError(t, db.sql.QueryRow("SELECT COUNT(*) FROM messages").Scan(&count))
	assert.Zero(t, count)
}

func TestArchive_Search(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")
	ts.Append(domain.NewUserMessage("Where is my order?"))
	ts.Append(domain.NewAssistantMessage("Your invoice INV-7 is paid.", domain.AgentBilling))
	ts.Append(domain.NewAssistantMessage("Your order shipped via courier.", domain.AgentOrder))

	hits, err := a.Search("order", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, ts.SessionID(), h.SessionID)
		assert.Contains(t, h.Message.Content, "order")
	}

	hits, err = a.Search("invoice", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.AgentBilling, hits[0].Message.Agent)
}

func TestArchive_Search_NoResults(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")
	ts.Append(domain.NewUserMessage("hello"))

	hits, err := a.Search("refund", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestArchive_Search_AfterDelete(t *testing.T) {
	a := NewArchive(testDB(t))
	ts := newSession(t, a, "u1")
	ts.Append(domain.NewUserMessage("tracking number please"))
	require.NoError(t, a.DeleteSession(ts.SessionID()))

	hits, err := a.Search("tracking", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
