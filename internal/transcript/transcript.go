// Package transcript holds the ordered list of conversation turns shown to
// the user.
package transcript

import (
	"sync"

	"github.com/soyeahso/relay/internal/domain"
)

// Store is an append-only transcript. Only an entry's reveal state may
// change after it is appended.
type Store interface {
	Append(msg domain.Message)
	MarkComplete(id string)
	List() []domain.Message
}

// ConversationBinder is implemented by stores that record which server-side
// conversation their entries belong to.
type ConversationBinder interface {
	BindConversation(conversationID string)
}

// MemoryStore keeps the transcript in memory. It is safe for concurrent use;
// List returns a snapshot.
type MemoryStore struct {
	mu    sync.RWMutex
	msgs  []domain.Message
	index map[string]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

// Append adds msg at the end of the transcript.
func (s *MemoryStore) Append(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[msg.ID] = len(s.msgs)
	s.msgs = append(s.msgs, msg)
}

// MarkComplete flips a revealing entry to complete. Unknown ids and entries
// that are already complete are left alone.
func (s *MemoryStore) MarkComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.msgs[i].Reveal = domain.RevealComplete
}

// List returns a copy of every entry in insertion order.
func (s *MemoryStore) List() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// lookup returns the entry with the given id.
func (s *MemoryStore) lookup(id string) (domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Message{}, false
	}
	return s.msgs[i], true
}

func (s *MemoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}

// Tee writes every entry to both stores and reads from the primary. It is
// used to archive a live transcript without slowing down List.
type Tee struct {
	primary Store
	archive Store
}

// NewTee returns a store backed by primary that mirrors writes to archive.
func NewTee(primary, archive Store) *Tee {
	return &Tee{primary: primary, archive: archive}
}

func (t *Tee) Append(msg domain.Message) {
	t.primary.Append(msg)
	t.archive.Append(msg)
}

func (t *Tee) MarkComplete(id string) {
	t.primary.MarkComplete(id)
	t.archive.MarkComplete(id)
}

func (t *Tee) List() []domain.Message {
	return t.primary.List()
}

// BindConversation forwards to whichever side records conversations.
func (t *Tee) BindConversation(conversationID string) {
	for _, s := range []Store{t.primary, t.archive} {
		if b, ok := s.(ConversationBinder); ok {
			b.BindConversation(conversationID)
		}
	}
}
