package countries

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds the transport settings for the HTTP client used to
// reach the countries endpoint.
type ClientConfig struct {
	// Timeout is the overall request limit, body included. Zero means none.
	Timeout time.Duration

	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
}

// DefaultClientConfig returns transport defaults suitable for one large GET.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:               30 * time.Second,
		DialTimeout:           10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
}

// NewHTTPClient builds an *http.Client from cfg. A nil cfg uses
// DefaultClientConfig.
func NewHTTPClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		c := DefaultClientConfig()
		cfg = &c
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
