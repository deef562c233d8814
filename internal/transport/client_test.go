package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/logging"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/", HeaderTimeout: 5 * time.Second}, silentLog())
}

func TestNewTrimsBaseURL(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:3001/api/"}, nil)
	assert.Equal(t, "http://localhost:3001/api", c.BaseURL())
}

func TestNewHasNoOverallTimeout(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:3001/api"}, nil)
	assert.Zero(t, c.http.Timeout)
	assert.Same(t, sharedTransport, c.http.Transport)
}

func TestNewHeaderTimeout(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:3001/api", HeaderTimeout: 2 * time.Second}, nil)
	assert.Zero(t, c.http.Timeout)

	tr, ok := c.http.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotSame(t, sharedTransport, tr)
	assert.Equal(t, 2*time.Second, tr.ResponseHeaderTimeout)
	assert.Zero(t, sharedTransport.ResponseHeaderTimeout)
}

func TestStreamMessageOutlivesHeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"type":"chunk","content":"Checking "}` + "\n"))
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"type":"done","conversationId":"c1"}` + "\n"))
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL, HeaderTimeout: 100 * time.Millisecond}, silentLog())
	var types []string
	err := c.StreamMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"}, func(f Frame) {
		types = append(types, f.Type)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"chunk", "done"}, types)
}

func TestSendMessage(t *testing.T) {
	var got SendRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "relay/"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"conversationId": "c42",
			"message": {"content": "Order ORD-2026-1001 has shipped.", "agentType": "order"},
			"routing": {"agentType": "order", "reasoning": "order keywords", "confidence": 0.92}
		}`))
	}))

	resp, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "Where is order ORD-2026-1001?"})
	require.NoError(t, err)

	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Where is order ORD-2026-1001?", got.Message)
	assert.Empty(t, got.ConversationID)
	assert.False(t, got.Stream)

	assert.Equal(t, "c42", resp.ConversationID)
	assert.Equal(t, "Order ORD-2026-1001 has shipped.", resp.Message.Content)
	assert.Equal(t, domain.AgentOrder, resp.Routing.Agent)
	assert.InDelta(t, 0.92, resp.Routing.Confidence, 1e-9)
}

func TestSendMessageOmitsEmptyConversationID(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"conversationId":"c1","message":{"content":"hi"},"routing":{"agentType":"support"}}`))
	}))

	_, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
	require.NoError(t, err)
	_, present := raw["conversationId"]
	assert.False(t, present)
}

func TestSendMessageUnauthenticated(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := c.SendMessage(context.Background(), SendRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = c.StreamMessage(context.Background(), SendRequest{Message: "hi"}, func(Frame) {})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Zero(t, calls.Load())
}

func TestSendMessageRemoteError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"server message", http.StatusBadRequest, `{"error":"Message too long"}`, "Message too long"},
		{"empty error field", http.StatusInternalServerError, `{"error":""}`, "Failed to send message"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, "Failed to send message"},
		{"empty body", http.StatusServiceUnavailable, ``, "Failed to send message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
			var rerr *RemoteError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.status, rerr.Status)
			assert.Equal(t, tt.message, rerr.Message)
		})
	}
}

func TestSendMessageRejectsUnknownAgent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"conversationId":"c1","message":{"content":"x"},"routing":{"agentType":"refunds"}}`))
	}))

	_, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
}

func TestStreamMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "c9", req.ConversationID)

		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		// Split a frame across writes and end without a newline.
		parts := []string{
			`{"type":"routing","conversationId":"c9","routing":{"agentType":"billing"}}` + "\n" + `{"type":"ch`,
			`unk","content":"Invoice "}` + "\n",
			"garbage\n",
			`{"type":"chunk","content":"paid"}` + "\n",
			`{"type":"done","conversationId":"c9","message":{"content":"Invoice paid","agentType":"billing"}}`,
		}
		for _, p := range parts {
			_, _ = w.Write([]byte(p))
			flusher.Flush()
		}
	}))

	var frames []Frame
	err := c.StreamMessage(context.Background(), SendRequest{UserID: "u1", Message: "invoice?", ConversationID: "c9"}, func(f Frame) {
		frames = append(frames, f)
	})
	require.NoError(t, err)
	require.Equal(t, []string{FrameRouting, FrameChunk, FrameChunk, FrameDone}, frameTypes(frames))

	var routing RoutingFrame
	require.NoError(t, frames[0].Decode(&routing))
	assert.Equal(t, domain.AgentBilling, routing.Routing.Agent)

	var done DoneFrame
	require.NoError(t, frames[3].Decode(&done))
	assert.Equal(t, "Invoice paid", done.Message.Content)
}

func TestStreamMessageRemoteError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	called := false
	err := c.StreamMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"}, func(Frame) { called = true })
	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "Failed to stream message", rerr.Message)
	assert.False(t, called)
}

func TestRemoteErrorString(t *testing.T) {
	err := &RemoteError{Status: 404, Message: "Conversation not found"}
	assert.Equal(t, "relay: Conversation not found (status 404)", err.Error())
}
