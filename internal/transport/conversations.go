package transport

import (
	"context"
	"net/http"
	"net/url"
)

// GetConversation fetches one conversation with its messages.
func (c *Client) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var out Conversation
	path := "/chat/conversations/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, "Failed to fetch conversation"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConversations fetches every conversation belonging to userID.
func (c *Client) ListConversations(ctx context.Context, userID string) (*ConversationList, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	var out ConversationList
	path := "/chat/conversations?userId=" + url.QueryEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, "Failed to fetch conversations"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConversation removes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	path := "/chat/conversations/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil, "Failed to delete conversation")
}
