package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy shared by every outbound client:
// the remote catalog fetch, the LLM fallback providers and the link checker.
// httpsProxy serves https URLs and httpProxy everything else; with neither
// set, the HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment decides.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
