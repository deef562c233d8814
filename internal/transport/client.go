package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/soyeahso/relay/internal/logging"
	"github.com/soyeahso/relay/internal/version"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// HeaderTimeout bounds the wait for response headers. Zero means none;
	// bodies are bounded only by the request context.
	HeaderTimeout time.Duration
	// HTTPClient overrides the pooled client.
	HTTPClient *http.Client
}

// Client talks to the relay service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// New creates a Client. The base URL is used without its trailing slash.
func New(cfg Config, log *logging.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient(cfg.HeaderTimeout)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    hc,
		log:     log.Sub("transport"),
	}
}

// BaseURL returns the service root every path is joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage posts one message and waits for the complete reply.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) (*SendResponse, error) {
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}
	req.Stream = false

	start := time.Now()
	var out SendResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/messages", nil, req, &out, "Failed to send message"); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("conversation", out.ConversationID).
		Str("agent", out.Routing.Agent.String()).
		Dur("elapsed", time.Since(start)).
		Msg("message delivered")
	return &out, nil
}

// StreamMessage posts one message with streaming enabled and calls onFrame
// for every decoded frame in arrival order. It returns once the body is
// exhausted; a trailing frame without a final newline is still delivered.
func (c *Client) StreamMessage(ctx context.Context, req SendRequest, onFrame func(Frame)) error {
	if req.UserID == "" {
		return ErrUnauthenticated
	}
	req.Stream = true

	resp, err := c.do(ctx, http.MethodPost, "/chat/messages", nil, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return remoteError(resp, "Failed to stream message")
	}

	dec := NewFrameDecoder()
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			for _, f := range dec.Feed(buf[:n]) {
				onFrame(f)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading stream")
		}
	}
	if pending := dec.Buffered(); pending > 0 {
		c.log.Debug().Int("bytes", pending).Msg("stream ended without a trailing newline")
	}
	for _, f := range dec.Flush() {
		onFrame(f)
	}

	if dropped := dec.Dropped(); dropped > 0 {
		c.log.Debug().Int("dropped", dropped).Msg("skipped malformed stream frames")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())

	c.log.Debug().Str("method", method).Str("path", path).Msg("request")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	return resp, nil
}

// doJSON performs a request and decodes a successful body into out. Failed
// responses become a RemoteError carrying the server's message or fallback.
func (c *Client) doJSON(ctx context.Context, method, path string, header http.Header, body, out any, fallback string) error {
	resp, err := c.do(ctx, method, path, header, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		rerr := remoteError(resp, fallback)
		c.log.Warn().Int("status", rerr.Status).Str("path", path).Msg(rerr.Message)
		return rerr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func userHeader(userID string) http.Header {
	h := http.Header{}
	h.Set("x-user-id", userID)
	return h
}
