package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAgent is returned when an agent tag is not one of the known specialists.
var ErrUnknownAgent = errors.New("unknown agent type")

// AgentType identifies which specialist produced an assistant turn.
// The set is closed: AgentNone, AgentOrder, AgentBilling, AgentSupport.
type AgentType string

const (
	AgentNone    AgentType = ""
	AgentOrder   AgentType = "order"
	AgentBilling AgentType = "billing"
	AgentSupport AgentType = "support"
)

// AgentTypes returns every member of the closed set, AgentNone first.
func AgentTypes() []AgentType {
	return []AgentType{AgentNone, AgentOrder, AgentBilling, AgentSupport}
}

// ParseAgentType converts a wire tag into an AgentType.
func ParseAgentType(s string) (AgentType, error) {
	switch AgentType(s) {
	case AgentNone, AgentOrder, AgentBilling, AgentSupport:
		return AgentType(s), nil
	default:
		return AgentNone, fmt.Errorf("%w: %q", ErrUnknownAgent, s)
	}
}

// String returns the wire tag, or "none" for AgentNone.
func (a AgentType) String() string {
	if a == AgentNone {
		return "none"
	}
	return string(a)
}

// UnmarshalJSON rejects tags outside the closed set.
func (a *AgentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAgentType(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Routing is the server's decision about which specialist answers a message.
type Routing struct {
	Agent      AgentType `json:"agentType"`
	Reasoning  string    `json:"reasoning"`
	Confidence float64   `json:"confidence"`
}
