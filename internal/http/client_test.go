package http

import (
	nethttp "net/http"
	"net/url"
	"testing"

	"github.com/driveport/driveport/internal/config"
)

func TestNewClientNoProxy(t *testing.T) {
	client, err := NewClient(&config.PlatformConfig{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Timeout != 0 {
		t.Errorf("Expected no client-wide timeout, got %v", client.Timeout)
	}
}

func TestProxyFuncExplicitProxy(t *testing.T) {
	cfg := &config.PlatformConfig{
		ProxyURL: "http://proxy.corp.example:3128",
		NoProxy:  "internal.example.com",
	}

	fn, err := proxyFunc(cfg)
	if err != nil {
		t.Fatalf("proxyFunc: %v", err)
	}

	req := &nethttp.Request{URL: mustParse(t, "https://cloud.example.com/v1/health")}
	got, err := fn(req)
	if err != nil {
		t.Fatalf("proxy resolution: %v", err)
	}
	if got == nil || got.Host != "proxy.corp.example:3128" {
		t.Errorf("Expected corp proxy, got %v", got)
	}

	bypass := &nethttp.Request{URL: mustParse(t, "https://internal.example.com/v1/health")}
	got, err = fn(bypass)
	if err != nil {
		t.Fatalf("proxy resolution: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no_proxy bypass, got %v", got)
	}
}

func TestProxyFuncRejectsBadURL(t *testing.T) {
	_, err := proxyFunc(&config.PlatformConfig{ProxyURL: "://bad"})
	if err == nil {
		t.Error("Expected error for malformed proxy URL")
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
