package util

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
// noProxy is a comma-separated host list in NO_PROXY syntax.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := &httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	// Configured proxies apply to both schemes when only one is set
	if cfg.HTTPSProxy == "" {
		cfg.HTTPSProxy = httpProxy
	}
	proxyFor := cfg.ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxyFor(req.URL)
	}
}
