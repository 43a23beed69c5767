package codefresh

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets the request rate and burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// Client talks to the control plane API. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient returns a client for baseURL that sends apiKey as the
// Authorization header.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		limiter: rate.NewLimiter(defaults.APIRateLimit, defaults.APIRateBurst),
		timeout: defaults.APITimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured control plane base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServicePrincipal are the Azure service principal credentials sent to the
// aks-sp token endpoint.
type ServicePrincipal struct {
	ClientID     string
	ClientSecret string
	Tenant       string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// RepositoryContext is a Helm repository context as stored in the control plane.
type RepositoryContext struct {
	Spec struct {
		Data struct {
			RepositoryURL string            `json:"repositoryUrl"`
			Variables     map[string]string `json:"variables"`
		} `json:"data"`
	} `json:"spec"`
}

// ClusterToken exchanges the API key for a token of an az:// repository.
func (c *Client) ClusterToken(ctx context.Context, service string) (string, error) {
	path := "/api/clusters/aks/helm/repos/" + url.PathEscape(service) + "/token"
	return c.token(ctx, http.MethodGet, path, nil)
}

// ServicePrincipalToken exchanges service principal credentials for a token of
// an azsp:// repository. A nil sp sends a GET without body.
func (c *Client) ServicePrincipalToken(ctx context.Context, service string, sp *ServicePrincipal) (string, error) {
	path := "/api/clusters/aks-sp/helm/repos/" + url.PathEscape(service) + "/token"
	if sp == nil {
		return c.token(ctx, http.MethodGet, path, nil)
	}
	form := url.Values{}
	form.Set("clientId", sp.ClientID)
	form.Set("clientSecret", sp.ClientSecret)
	form.Set("tenant", sp.Tenant)
	return c.token(ctx, http.MethodPost, path, form)
}

// RepositoryContext fetches the decrypted repository context name.
func (c *Client) RepositoryContext(ctx context.Context, name string) (*RepositoryContext, error) {
	path := "/api/contexts/" + url.PathEscape(name) + "?decrypt=true"

	var rc RepositoryContext
	if err := c.do(ctx, http.MethodGet, path, nil, &rc); err != nil {
		return nil, err
	}
	slog.Debug("repository context fetched", "context", name, "hasURL", rc.Spec.Data.RepositoryURL != "")
	return &rc, nil
}

func (c *Client) token(ctx context.Context, method, path string, form url.Values) (string, error) {
	var tr tokenResponse
	if err := c.do(ctx, method, path, form, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.WrapWithContext(errors.ErrCodeUpstream, "token response did not contain an access token", nil,
			map[string]any{"path": path})
	}
	return tr.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "rate limiter wait aborted", err)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create control plane request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.WrapWithContext(errors.ErrCodeTimeout, "control plane request timed out", err,
				map[string]any{"path": path, "timeout": c.timeout.String()})
		}
		return errors.WrapWithContext(errors.ErrCodeTransport, "control plane request failed", err,
			map[string]any{"path": path})
	}
	defer resp.Body.Close()

	slog.Debug("control plane request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.WrapWithContext(errors.ErrCodeUnauthorized, "control plane rejected the API key", nil,
			map[string]any{"path": path})
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.WrapWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("control plane returned %s", resp.Status), nil,
			map[string]any{"path": path, "status": resp.StatusCode})
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, defaults.APIMaxResponseBytes)).Decode(out); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUpstream, "failed to decode control plane response", err,
			map[string]any{"path": path})
	}
	return nil
}
