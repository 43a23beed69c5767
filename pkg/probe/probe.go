// Package probe detects whether an http(s) chart repository is an
// Artifactory instance.
package probe

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

const (
	headerArtifactoryID = "X-Artifactory-Id"
	serverMarker        = "artifactory"
)

// Option is a functional option for configuring Detector instances.
type Option func(*Detector)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Detector) {
		d.http = hc
	}
}

// WithTimeout sets the probe deadline.
func WithTimeout(t time.Duration) Option {
	return func(d *Detector) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// Detector issues a single authenticated GET and inspects the response headers.
type Detector struct {
	http    *http.Client
	timeout time.Duration
}

// NewDetector returns a Detector with default settings.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		http:    &http.Client{},
		timeout: defaults.ProbeTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsArtifactory probes repoURL once. Credentials embedded in the URL are
// stripped and sent as basic auth, unless creds is set, which takes
// precedence. A false result with a nil
// error means the repository answered but could not be identified.
func (d *Detector) IsArtifactory(ctx context.Context, repoURL string, creds env.Credentials) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	target := env.StripCredentials(repoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeInvalidConfiguration, "invalid repository URL", err,
			map[string]any{"url": target})
	}
	if creds.IsSet() {
		req.SetBasicAuth(creds.Username, creds.Password)
	} else if u, perr := url.Parse(repoURL); perr == nil && u.User != nil {
		pass, _ := u.User.Password()
		req.SetBasicAuth(u.User.Username(), pass)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return false, errors.WrapWithContext(errors.ErrCodeTimeout, "repository probe timed out", err,
				map[string]any{"url": target})
		}
		return false, errors.WrapWithContext(errors.ErrCodeTransport, "failed to reach the Helm repository", err,
			map[string]any{"url": target})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	slog.Debug("repository probed", "url", target, "status", resp.StatusCode, "server", resp.Header.Get("Server"))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return false, errors.WrapWithContext(errors.ErrCodeUnauthorized,
			"Helm repository rejected the credentials (401 Unauthorized)", nil,
			map[string]any{"url": target})
	case resp.StatusCode >= 400:
		return false, errors.WrapWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("Helm repository returned %s", resp.Status), nil,
			map[string]any{"url": target, "status": resp.StatusCode})
	}

	return isArtifactory(resp.Header), nil
}

func isArtifactory(h http.Header) bool {
	for name, values := range h {
		if strings.EqualFold(name, headerArtifactoryID) {
			return true
		}
		if strings.EqualFold(name, "Server") {
			for _, v := range values {
				if strings.Contains(strings.ToLower(v), serverMarker) {
					return true
				}
			}
		}
	}
	return false
}
