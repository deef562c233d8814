package stubserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/relay/internal/domain"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		message string
		want    domain.AgentType
	}{
		{"Where is my order ORD-2026-1001?", domain.AgentOrder},
		{"track my package", domain.AgentOrder},
		{"I want a refund for invoice INV-2024-001", domain.AgentBilling},
		{"why was my card charged twice", domain.AgentBilling},
		{"hello there", domain.AgentSupport},
		{"", domain.AgentSupport},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := Route(tt.message)
			assert.Equal(t, tt.want, got.Agent)
			assert.NotEmpty(t, got.Reasoning)
			assert.Greater(t, got.Confidence, 0.0)
		})
	}
}

func TestRoute_ReasoningNamesKeywords(t *testing.T) {
	r := Route("please track my order")
	assert.Contains(t, r.Reasoning, "order")
	assert.Contains(t, r.Reasoning, "track")
	assert.Contains(t, r.Reasoning, "Order Agent")
}

func TestReply(t *testing.T) {
	assert.Contains(t, Reply(domain.AgentOrder, "where is ord-2026-1001"), "**ORD-2026-1001**")
	assert.Contains(t, Reply(domain.AgentOrder, "where is order #8829"), "**#8829**")
	assert.Contains(t, Reply(domain.AgentOrder, "my order"), "order number")
	assert.Contains(t, Reply(domain.AgentBilling, "invoice INV-2024-001"), "**INV-2024-001**")
	assert.Contains(t, Reply(domain.AgentSupport, "hi"), "**orders**")
}

func TestChunks(t *testing.T) {
	text := "Order **ORD-1** is on its way."
	parts := chunks(text)
	assert.Len(t, parts, 6)
	assert.Equal(t, text, strings.Join(parts, ""))
	assert.Empty(t, chunks(""))
}
