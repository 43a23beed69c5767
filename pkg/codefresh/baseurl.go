package codefresh

import (
	"net/url"
	"strings"

	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
)

// ResolveBaseURL derives the control plane base URL. An explicit apiURL wins.
// A build URL containing "local" points at hostIP over plain http, falling
// back to the build URL host. Otherwise the scheme and host of an absolute
// build URL are used, then the public default.
func ResolveBaseURL(apiURL, buildURL, hostIP string) string {
	if apiURL != "" {
		return strings.TrimSuffix(apiURL, "/")
	}

	if strings.Contains(buildURL, "local") {
		host := hostIP
		if host == "" {
			host = hostOf(buildURL)
		}
		if host != "" {
			return "http://" + host
		}
	}

	if u, err := url.Parse(buildURL); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}

	return defaults.APIBaseURL
}

// hostOf returns the authority of raw, with or without a scheme.
func hostOf(raw string) string {
	if _, rest, ok := strings.Cut(raw, "://"); ok {
		raw = rest
	}
	host, _, _ := strings.Cut(raw, "/")
	return host
}
