package stubserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/transport"
)

const titleLimit = 50

type entry struct {
	conv transport.Conversation
	// seq orders conversations by last activity.
	seq uint64
}

// state is the service's in-memory bookkeeping.
type state struct {
	mu            sync.Mutex
	conversations map[string]*entry
	sampleData    map[string]bool
	seq           uint64
	now           func() time.Time
}

func newState() *state {
	return &state{
		conversations: make(map[string]*entry),
		sampleData:    make(map[string]bool),
		now:           time.Now,
	}
}

func (s *state) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// record stores one exchange. An unknown or foreign conversation id starts
// a new conversation.
func (s *state) record(userID, conversationID, text, reply string, routing domain.Routing) (string, transport.RemoteMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.conversations[conversationID]
	if !ok || e.conv.UserID != userID {
		title := text
		if r := []rune(title); len(r) > titleLimit {
			title = string(r[:titleLimit]) + "..."
		}
		e = &entry{conv: transport.Conversation{
			ID:        uuid.New().String(),
			UserID:    userID,
			Title:     title,
			CreatedAt: s.stamp(),
		}}
		s.conversations[e.conv.ID] = e
	}
	s.seq++
	e.seq = s.seq
	conv := &e.conv

	user := transport.RemoteMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           "user",
		Content:        text,
		CreatedAt:      s.stamp(),
	}
	assistant := transport.RemoteMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           "assistant",
		Content:        reply,
		Agent:          routing.Agent,
		Reasoning:      routing.Reasoning,
		Metadata:       map[string]any{"confidence": routing.Confidence},
		CreatedAt:      s.stamp(),
	}
	conv.Messages = append(conv.Messages, user, assistant)
	conv.UpdatedAt = assistant.CreatedAt
	return conv.ID, assistant
}

func (s *state) conversation(id string) (transport.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.conversations[id]
	if !ok {
		return transport.Conversation{}, false
	}
	return e.snapshot(), true
}

func (e *entry) snapshot() transport.Conversation {
	out := e.conv
	out.Messages = append([]transport.RemoteMessage(nil), e.conv.Messages...)
	return out
}

// list returns the user's conversations, most recently updated first.
func (s *state) list(userID string) []transport.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []*entry
	for _, e := range s.conversations {
		if e.conv.UserID == userID {
			mine = append(mine, e)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].seq > mine[j].seq })

	out := make([]transport.Conversation, 0, len(mine))
	for _, e := range mine {
		out = append(out, e.snapshot())
	}
	return out
}

func (s *state) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return false
	}
	delete(s.conversations, id)
	return true
}

func (s *state) hasSampleData(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleData[userID]
}

func (s *state) populate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleData[userID] = true
}
