package transport

import (
	"encoding/json"

	"github.com/soyeahso/relay/internal/domain"
)

// SendRequest is the body of POST /chat/messages.
type SendRequest struct {
	UserID         string `json:"userId"`
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
	Stream         bool   `json:"stream"`
}

// RemoteMessage is a message as the relay service stores it.
type RemoteMessage struct {
	ID             string           `json:"id,omitempty"`
	ConversationID string           `json:"conversationId,omitempty"`
	Role           string           `json:"role,omitempty"`
	Content        string           `json:"content"`
	Agent          domain.AgentType `json:"agentType,omitempty"`
	Reasoning      string           `json:"reasoning,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	CreatedAt      string           `json:"createdAt,omitempty"`
}

// SendResponse is the non-streaming reply to a sent message.
type SendResponse struct {
	ConversationID string         `json:"conversationId"`
	Message        RemoteMessage  `json:"message"`
	Routing        domain.Routing `json:"routing"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Conversation is a stored conversation with its messages.
type Conversation struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title,omitempty"`
	Messages  []RemoteMessage `json:"messages"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// ConversationList is the reply to a conversation listing.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// AgentInfo describes one specialist the service can route to.
type AgentInfo struct {
	Type        domain.AgentType `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
}

// AgentCapabilities lists what a specialist can do.
type AgentCapabilities struct {
	Agent        domain.AgentType `json:"agentType"`
	Capabilities []string         `json:"capabilities"`
}

// HealthStatus is the reply from GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PopulateResult is the reply to a sample-data population request.
type PopulateResult struct {
	Message  string `json:"message,omitempty"`
	Orders   int    `json:"orders,omitempty"`
	Invoices int    `json:"invoices,omitempty"`
}

// Stream frame types emitted by the relay service.
const (
	FrameRouting = "routing"
	FrameChunk   = "chunk"
	FrameDone    = "done"
	FrameError   = "error"
)

// Frame is one decoded line of a streamed response.
type Frame struct {
	Type string
	Raw  json.RawMessage
}

// Decode unmarshals the full frame into v.
func (f Frame) Decode(v any) error {
	return json.Unmarshal(f.Raw, v)
}

// RoutingFrame announces the routing decision before content arrives.
type RoutingFrame struct {
	ConversationID string         `json:"conversationId"`
	Routing        domain.Routing `json:"routing"`
}

// ChunkFrame carries a piece of assistant content.
type ChunkFrame struct {
	Content string `json:"content"`
}

// DoneFrame closes a stream with the stored assistant message.
type DoneFrame struct {
	ConversationID string        `json:"conversationId"`
	Message        RemoteMessage `json:"message"`
}

// ErrorFrame reports a failure after the stream has started.
type ErrorFrame struct {
	Error string `json:"error"`
}
