package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- AgentType tests ---

func TestParseAgentType(t *testing.T) {
	tests := []struct {
		in      string
		want    AgentType
		wantErr bool
	}{
		{"", AgentNone, false},
		{"order", AgentOrder, false},
		{"billing", AgentBilling, false},
		{"support", AgentSupport, false},
		{"Order", AgentNone, true},
		{"shipping", AgentNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAgentType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownAgent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgentTypeString(t *testing.T) {
	assert.Equal(t, "none", AgentNone.String())
	assert.Equal(t, "order", AgentOrder.String())
}

func TestAgentTypes_ClosedSet(t *testing.T) {
	all := AgentTypes()
	require.Len(t, all, 4)
	for _, a := range all {
		parsed, err := ParseAgentType(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestRoutingJSON_RejectsUnknownAgent(t *testing.T) {
	var r Routing
	err := json.Unmarshal([]byte(`{"agentType":"shipping","reasoning":"x","confidence":0.5}`), &r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestRoutingJSON(t *testing.T) {
	var r Routing
	require.NoError(t, json.Unmarshal([]byte(`{"agentType":"order","reasoning":"intent=ORDER_TRACKING","confidence":0.95}`), &r))
	assert.Equal(t, AgentOrder, r.Agent)
	assert.Equal(t, "intent=ORDER_TRACKING", r.Reasoning)
	assert.InDelta(t, 0.95, r.Confidence, 1e-9)
}

// --- Message tests ---

func TestMessageConstructors(t *testing.T) {
	u := NewUserMessage("  hi  ")
	s := NewSystemMessage("notice")
	a := NewAssistantMessage("answer", AgentBilling)

	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "  hi  ", u.Content)
	assert.Equal(t, RevealComplete, u.Reveal)
	assert.Equal(t, AgentNone, u.Agent)

	assert.Equal(t, RoleSystem, s.Role)
	assert.Equal(t, RevealComplete, s.Reveal)

	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, AgentBilling, a.Agent)
	assert.True(t, a.Revealing())

	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, u.ID, s.ID)
	assert.NotEqual(t, s.ID, a.ID)
	assert.False(t, u.Timestamp.IsZero())
}

func TestMessageClock(t *testing.T) {
	m := NewUserMessage("x")
	assert.Len(t, m.Clock(), 5)
	assert.Equal(t, m.Timestamp.Format("15:04"), m.Clock())
}

func TestMessageJSON_OmitsNoneAgent(t *testing.T) {
	data, err := json.Marshal(NewUserMessage("hello"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "agentType")
}
