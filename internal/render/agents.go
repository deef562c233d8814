// Package render turns transcript entries into terminal text.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/soyeahso/relay/internal/domain"
)

// AgentStyle is how one specialist is presented.
type AgentStyle struct {
	Label string
	Icon  string
	Color lipgloss.Color
}

// agents has an entry for every member of domain.AgentTypes.
var agents = map[domain.AgentType]AgentStyle{
	domain.AgentNone:    {Label: "Relay AI", Icon: "🤖", Color: lipgloss.Color("63")},
	domain.AgentOrder:   {Label: "Order Agent", Icon: "📦", Color: lipgloss.Color("33")},
	domain.AgentBilling: {Label: "Billing Agent", Icon: "💳", Color: lipgloss.Color("135")},
	domain.AgentSupport: {Label: "Support Agent", Icon: "🛟", Color: lipgloss.Color("35")},
}

// Agent returns the presentation of a. AgentType values only come from
// ParseAgentType or JSON decoding, so a missing entry is a programming error.
func Agent(a domain.AgentType) AgentStyle {
	s, ok := agents[a]
	if !ok {
		panic(fmt.Sprintf("render: no presentation for agent %q", string(a)))
	}
	return s
}

// Header is the status line under the title.
func Header(current domain.AgentType) string {
	if current == domain.AgentNone {
		return "Start a conversation"
	}
	return fmt.Sprintf("Connected to %s agent", string(current))
}

// Typing is the indicator shown while a send is in flight.
func Typing(current domain.AgentType) string {
	if current == domain.AgentNone {
		return "Agent is typing..."
	}
	return Agent(current).Label + " is typing..."
}
