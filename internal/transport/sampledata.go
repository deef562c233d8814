package transport

import (
	"context"
	"net/http"
)

// CheckSampleData reports whether the user already has demo orders and
// invoices.
func (c *Client) CheckSampleData(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrUnauthenticated
	}
	var out struct {
		HasData bool `json:"hasData"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/user/check-sample-data", userHeader(userID), nil, &out, "Failed to check sample data"); err != nil {
		return false, err
	}
	return out.HasData, nil
}

// PopulateSampleData asks the service to create demo orders and invoices
// for the user.
func (c *Client) PopulateSampleData(ctx context.Context, userID string) (*PopulateResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	var out PopulateResult
	if err := c.doJSON(ctx, http.MethodPost, "/user/populate-sample-data", userHeader(userID), nil, &out, "Failed to populate data"); err != nil {
		return nil, err
	}
	return &out, nil
}
