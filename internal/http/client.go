// Package http constructs the HTTP clients shared by document-store and
// storage operations, with proxy support.
package http

import (
	"crypto/tls"
	"net"
	nethttp "net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/net/http2"

	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/constants"
)

// NewClient creates an HTTP client honoring the configured proxy. With no
// explicit proxy configured, settings come from the HTTP_PROXY/HTTPS_PROXY/
// NO_PROXY environment.
//
// The client carries no overall timeout: transfers run until the transport
// fails or the caller cancels the request context.
func NewClient(cfg *config.PlatformConfig) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: constants.HTTPResponseHeaderTimeout,
		DisableCompression:    true, // uploads are opaque bytes; compression buys nothing
	}

	proxyFn, err := proxyFunc(cfg)
	if err != nil {
		return nil, err
	}
	transport.Proxy = proxyFn

	// HTTP/2 improves multiplexed document-store traffic; keep a runtime
	// escape hatch for broken middleboxes.
	if os.Getenv("DRIVEPORT_DISABLE_HTTP2") == "" {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, err
		}
	}

	return &nethttp.Client{Transport: transport}, nil
}

// proxyFunc builds the transport proxy callback from config or environment.
func proxyFunc(cfg *config.PlatformConfig) (func(*nethttp.Request) (*url.URL, error), error) {
	if cfg == nil || strings.TrimSpace(cfg.ProxyURL) == "" {
		return nethttp.ProxyFromEnvironment, nil
	}

	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}

	pc := &httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    cfg.NoProxy,
	}
	fn := pc.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return fn(req.URL)
	}, nil
}
