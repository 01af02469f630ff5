package llm

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// newProxyFunc routes requests through the configured proxies, honouring
// noProxy. With no proxy configured it falls back to the environment.
func newProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	proxy := (&httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}).ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}
