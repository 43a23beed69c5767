// Package token resolves repository tokens for Azure scheme URLs and rewrites
// those URLs to https.
package token

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/codefresh-contrib/cfstep-helm/pkg/codefresh"
	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// Scheme is an Azure repository URL scheme.
type Scheme string

const (
	SchemeAz   Scheme = "az"
	SchemeAzSP Scheme = "azsp"
	SchemeAzMI Scheme = "azmi"
)

// Source records where a token came from.
type Source string

const (
	SourceExchange Source = "exchange"
	SourcePreset   Source = "preset"
	SourceCache    Source = "cache"
	SourceDryRun   Source = "dry-run"
)

// RepoPath is appended to the service host of a rewritten Azure URL.
const RepoPath = "/helm/v1/repo"

// ParseScheme splits an az://, azsp:// or azmi:// URL into its scheme and
// service name. The service is the remainder with trailing slashes removed.
func ParseScheme(raw string) (Scheme, string, bool) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", false
	}
	switch s := Scheme(strings.ToLower(scheme)); s {
	case SchemeAz, SchemeAzSP, SchemeAzMI:
		return s, strings.TrimRight(rest, "/"), true
	default:
		return "", "", false
	}
}

// IsAzure reports whether raw uses one of the Azure schemes.
func IsAzure(raw string) bool {
	_, _, ok := ParseScheme(raw)
	return ok
}

// RepoURL builds the https URL of service with token embedded as the
// password of the placeholder identity.
func RepoURL(service, token string) string {
	return "https://" + uuid.Nil.String() + ":" + token + "@" + service + RepoPath
}

// Exchanger obtains repository tokens from the control plane.
type Exchanger interface {
	ClusterToken(ctx context.Context, service string) (string, error)
	ServicePrincipalToken(ctx context.Context, service string, sp *codefresh.ServicePrincipal) (string, error)
}

// Option is a functional option for configuring Cache instances.
type Option func(*Cache)

// WithPreset sets the pre-supplied HELM_REPO_TOKEN.
func WithPreset(token string) Option {
	return func(c *Cache) {
		c.preset = token
	}
}

// WithServicePrincipal sets the credentials sent to the aks-sp endpoint.
func WithServicePrincipal(sp *codefresh.ServicePrincipal) Option {
	return func(c *Cache) {
		c.sp = sp
	}
}

// WithDryRun makes every lookup return the dry-run placeholder token.
func WithDryRun(dryRun bool) Option {
	return func(c *Cache) {
		c.dryRun = dryRun
	}
}

// Cache hands out one token per build. The first token obtained, whatever its
// scheme or service, is reused for every later lookup.
type Cache struct {
	exchanger Exchanger
	preset    string
	sp        *codefresh.ServicePrincipal
	dryRun    bool

	mu    sync.Mutex
	token string
	group singleflight.Group
}

// NewCache returns an empty cache backed by exchanger.
func NewCache(exchanger Exchanger, opts ...Option) *Cache {
	c := &Cache{exchanger: exchanger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the repository token for service reached through scheme.
func (c *Cache) Token(ctx context.Context, scheme Scheme, service string) (string, Source, error) {
	if c.dryRun {
		return defaults.DryRunToken, SourceDryRun, nil
	}

	if tok, ok := c.cached(); ok {
		slog.Debug("reusing repository token", "scheme", scheme, "service", service)
		return tok, SourceCache, nil
	}

	v, err, _ := c.group.Do("token", func() (any, error) {
		if tok, ok := c.cached(); ok {
			return result{tok, SourceCache}, nil
		}
		tok, src, err := c.obtain(ctx, scheme, service)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.token = tok
		c.mu.Unlock()
		return result{tok, src}, nil
	})
	if err != nil {
		return "", "", err
	}
	r := v.(result)
	return r.token, r.source, nil
}

type result struct {
	token  string
	source Source
}

func (c *Cache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.token != ""
}

func (c *Cache) obtain(ctx context.Context, scheme Scheme, service string) (string, Source, error) {
	switch scheme {
	case SchemeAzMI:
		if c.preset == "" {
			return "", "", errors.WrapWithContext(errors.ErrCodeInvalidConfiguration,
				"Must set HELM_REPO_TOKEN in the environment for azmi:// repositories", nil,
				map[string]any{"service": service})
		}
		return c.preset, SourcePreset, nil

	case SchemeAzSP:
		if c.preset != "" {
			return c.preset, SourcePreset, nil
		}
		slog.Info("exchanging service principal token", "service", service, "credentials", c.sp != nil)
		tok, err := c.exchanger.ServicePrincipalToken(ctx, service, c.sp)
		if err != nil {
			return "", "", errors.WrapWithContext(errors.CodeOf(err), "failed to obtain repository token", err,
				map[string]any{"scheme": string(scheme), "service": service})
		}
		return tok, SourceExchange, nil

	case SchemeAz:
		slog.Info("exchanging cluster token", "service", service)
		tok, err := c.exchanger.ClusterToken(ctx, service)
		if err != nil {
			return "", "", errors.WrapWithContext(errors.CodeOf(err), "failed to obtain repository token", err,
				map[string]any{"scheme": string(scheme), "service": service})
		}
		return tok, SourceExchange, nil

	default:
		return "", "", errors.New(errors.ErrCodeUnsupportedProtocol, "unknown token scheme "+string(scheme))
	}
}
