// Package util holds small HTTP plumbing shared by the oracle
// providers.
package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the proxy selector for an oracle HTTP client.
// With no explicit proxy URLs it defers to the standard environment
// variables. Hosts listed in noProxy (comma-separated, suffix match)
// bypass the proxy entirely.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var bypass []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			bypass = append(bypass, h)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, b := range bypass {
			if host == b || strings.HasSuffix(host, "."+b) {
				return nil, nil
			}
		}

		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
