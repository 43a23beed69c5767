package builder

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/codefresh-contrib/cfstep-helm/pkg/codefresh"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
	"github.com/codefresh-contrib/cfstep-helm/pkg/token"
)

// applyRepositoryContext replaces the chart repository URL and the service
// principal variables with those of HELM_REPOSITORY_CONTEXT.
func (s *session) applyRepositoryContext(ctx context.Context) error {
	name := s.cfg.RepositoryContext
	if name == "" {
		return nil
	}

	rc, err := s.client.RepositoryContext(ctx, name)
	if err != nil {
		return errors.WrapWithContext(errors.CodeOf(err), "failed to fetch Helm repository context", err,
			map[string]any{"context": name})
	}

	data := rc.Spec.Data
	if data.RepositoryURL != "" {
		s.cfg.ChartRepoURL = data.RepositoryURL
	}
	if v := data.Variables[env.ClientID]; v != "" {
		s.cfg.ClientID = v
	}
	if v := data.Variables[env.ClientSecret]; v != "" {
		s.cfg.ClientSecret = v
	}
	if v := data.Variables[env.Tenant]; v != "" {
		s.cfg.Tenant = v
	}

	slog.Info("repository context applied", "context", name, "url", env.StripCredentials(s.cfg.ChartRepoURL))
	return nil
}

// resolveRepositories normalizes the named repositories and the chart
// repository URL and rewrites Azure scheme URLs. Named repositories resolve
// first, in variable-name order; without an explicit chart URL the last one
// becomes the chart repository.
func (s *session) resolveRepositories(ctx context.Context) error {
	var sp *codefresh.ServicePrincipal
	if s.cfg.HasServicePrincipal() {
		sp = &codefresh.ServicePrincipal{
			ClientID:     s.cfg.ClientID,
			ClientSecret: s.cfg.ClientSecret,
			Tenant:       s.cfg.Tenant,
		}
	}
	s.tokens = token.NewCache(s.client,
		token.WithPreset(s.cfg.HelmRepoToken),
		token.WithServicePrincipal(sp),
		token.WithDryRun(s.cfg.DryRun))

	s.repos = make(map[string]string, len(s.cfg.Repos))
	for _, name := range s.cfg.RepoNames {
		u, azure, err := s.resolveURL(ctx, s.cfg.Repos[name])
		if err != nil {
			return err
		}
		s.repos[name] = u
		if s.cfg.ChartRepoURL == "" {
			s.chartURL, s.chartAzure = u, azure
		}
	}

	if s.cfg.ChartRepoURL != "" {
		u, azure, err := s.resolveURL(ctx, s.cfg.ChartRepoURL)
		if err != nil {
			return err
		}
		s.chartURL, s.chartAzure = u, azure
	}

	if s.chartURL != "" && !strings.HasSuffix(s.chartURL, "/") {
		s.chartURL += "/"
	}

	slog.Debug("repositories resolved",
		"named", len(s.repos),
		"chartURL", env.StripCredentials(s.chartURL),
		"azure", s.chartAzure)
	return nil
}

func (s *session) resolveURL(ctx context.Context, raw string) (string, bool, error) {
	u := env.NormalizeRepoURL(raw, s.cfg.Credentials)

	scheme, service, ok := token.ParseScheme(u)
	if !ok {
		return u, false, nil
	}

	tok, src, err := s.tokens.Token(ctx, scheme, service)
	if err != nil {
		return "", false, err
	}
	tokenExchangeTotal.WithLabelValues(string(scheme), string(src)).Inc()
	return token.RepoURL(service, tok), true, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
