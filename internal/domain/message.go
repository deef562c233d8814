package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// RevealState tracks whether an assistant turn is still being revealed.
type RevealState string

const (
	RevealRevealing RevealState = "revealing"
	RevealComplete  RevealState = "complete"
)

// Message is a single turn in the conversation transcript.
// Everything except Reveal is fixed at creation.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Agent     AgentType   `json:"agentType,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Reveal    RevealState `json:"revealState"`
}

// NewUserMessage creates a user turn. Content is kept verbatim.
func NewUserMessage(content string) Message {
	return newMessage(RoleUser, content, AgentNone, RevealComplete)
}

// NewSystemMessage creates a system turn (reasoning, notices, errors).
func NewSystemMessage(content string) Message {
	return newMessage(RoleSystem, content, AgentNone, RevealComplete)
}

// NewAssistantMessage creates an assistant turn that starts out revealing.
func NewAssistantMessage(content string, agent AgentType) Message {
	return newMessage(RoleAssistant, content, agent, RevealRevealing)
}

func newMessage(role Role, content string, agent AgentType, reveal RevealState) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
		Reveal:    reveal,
	}
}

// Clock renders the capture time the way the transcript shows it.
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}

// Revealing reports whether the reveal animation still owns this message.
func (m Message) Revealing() bool {
	return m.Reveal == RevealRevealing
}
