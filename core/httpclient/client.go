package httpclient

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Config holds configuration for outbound HTTP calls.
type Config struct {
	// TimeoutSeconds bounds connection setup, TLS handshake and the whole request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// New creates an HTTP client with a tuned transport and a cookie jar.
func New(cfg Config) *http.Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	// cookiejar.New only fails on a non-nil PublicSuffixList.
	jar, _ := cookiejar.New(nil)

	return &http.Client{
		Transport: transport,
		Timeout:   timeoutDuration,
		Jar:       jar,
	}
}
