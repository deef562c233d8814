// Package transport is the HTTP client for the relay service.
//
// It covers the send-message exchange in both of its forms (one JSON
// response, or a newline-delimited JSON stream decoded by FrameDecoder) plus
// the auxiliary conversation, agent, health and sample-data endpoints. The
// client holds no session state; callers own the conversation id.
package transport
