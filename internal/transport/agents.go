package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/soyeahso/relay/internal/domain"
)

// ListAgents fetches the specialists the service can route to.
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	var out struct {
		Agents []AgentInfo `json:"agents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/agents", nil, nil, &out, "Failed to fetch agents"); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// AgentCapabilities fetches what one specialist can do.
func (c *Client) AgentCapabilities(ctx context.Context, agent domain.AgentType) (*AgentCapabilities, error) {
	if agent == domain.AgentNone {
		return nil, domain.ErrUnknownAgent
	}
	var out AgentCapabilities
	path := "/agents/" + url.PathEscape(string(agent)) + "/capabilities"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, "Failed to fetch agent capabilities"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the service is up.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &out, "Health check failed"); err != nil {
		return nil, err
	}
	return &out, nil
}
