package transport

import (
	"net"
	"net/http"
	"time"
)

// sharedTransport pools connections for every Client in the process.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// newHTTPClient returns a client on the shared transport. The client has no
// overall timeout, so a streamed body may run as long as the caller's context
// allows. A positive headerTimeout bounds only the wait for response headers
// and needs its own transport.
func newHTTPClient(headerTimeout time.Duration) *http.Client {
	if headerTimeout <= 0 {
		return &http.Client{Transport: sharedTransport}
	}
	t := sharedTransport.Clone()
	t.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: t}
}
