package builder

import (
	"context"
	"log/slog"
	"strings"
	"time"

	vfs "github.com/twpayne/go-vfs/v4"

	"github.com/codefresh-contrib/cfstep-helm/pkg/chart"
	"github.com/codefresh-contrib/cfstep-helm/pkg/codefresh"
	"github.com/codefresh-contrib/cfstep-helm/pkg/config"
	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/helm"
	"github.com/codefresh-contrib/cfstep-helm/pkg/probe"
	"github.com/codefresh-contrib/cfstep-helm/pkg/token"
)

// Shebang is the first line of every script.
const Shebang = "#!/bin/bash -e"

// APIClient is the control plane surface the builder uses.
type APIClient interface {
	token.Exchanger
	RepositoryContext(ctx context.Context, name string) (*codefresh.RepositoryContext, error)
}

// RepositoryDetector identifies artifact repositories behind http(s) URLs.
type RepositoryDetector interface {
	IsArtifactory(ctx context.Context, repoURL string, creds env.Credentials) (bool, error)
}

// Option is a functional option for configuring Builder instances.
type Option func(*Builder)

// WithAPIClient sets the control plane client. Without it a client is created
// per build from the CF_* variables.
func WithAPIClient(c APIClient) Option {
	return func(b *Builder) {
		b.client = c
	}
}

// WithDetector sets the artifact repository detector.
func WithDetector(d RepositoryDetector) Option {
	return func(b *Builder) {
		b.detector = d
	}
}

// WithFS sets the filesystem inline chart payloads are written to.
func WithFS(fs vfs.FS) Option {
	return func(b *Builder) {
		b.fs = fs
	}
}

// WithTimeout sets the deadline of every network call.
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// Builder turns an environment into a Helm script.
type Builder struct {
	client   APIClient
	detector RepositoryDetector
	fs       vfs.FS
	timeout  time.Duration
}

// New creates a Builder with the provided functional options.
func New(opts ...Option) *Builder {
	b := &Builder{
		fs:      vfs.OSFS,
		timeout: defaults.APITimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.detector == nil {
		b.detector = probe.NewDetector(probe.WithTimeout(b.timeout))
	}
	return b
}

// Build derives the configuration from e and renders the script. On error no
// script is returned.
func (b *Builder) Build(ctx context.Context, e env.Environment) (string, error) {
	start := time.Now()
	action := "unknown"
	status := "error"
	defer func() {
		buildDuration.Observe(time.Since(start).Seconds())
		buildTotal.WithLabelValues(action, status).Inc()
	}()

	cfg, err := config.Load(e)
	if err != nil {
		return "", err
	}
	action = string(cfg.Action)

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	s := &session{
		cfg:      cfg,
		helm:     helm.New(cfg.HelmVersion),
		client:   b.apiClient(cfg),
		detector: b.detector,
		fs:       b.fs,
	}

	script, err := s.render(ctx)
	if err != nil {
		return "", err
	}

	status = "success"
	slog.Info("script generated",
		"action", cfg.Action,
		"helm", cfg.HelmVersion.String(),
		"dryRun", cfg.DryRun,
		"lines", strings.Count(script, "\n")+1,
		"duration", time.Since(start).String())
	return script, nil
}

func (b *Builder) apiClient(cfg *config.Config) APIClient {
	if b.client != nil {
		return b.client
	}
	base := codefresh.ResolveBaseURL(cfg.APIURL, cfg.BuildURL, cfg.HostIP)
	slog.Debug("control plane", "baseURL", base)
	return codefresh.NewClient(base, cfg.APIKey, codefresh.WithTimeout(b.timeout))
}

// session holds the state of one build.
type session struct {
	cfg      *config.Config
	helm     helm.CommandBuilder
	client   APIClient
	detector RepositoryDetector
	fs       vfs.FS
	tokens   *token.Cache

	// chartURL is the resolved chart repository URL, "" when none.
	chartURL string
	// chartAzure reports whether chartURL was rewritten from an Azure scheme.
	chartAzure bool
	// repos are the resolved named repositories.
	repos map[string]string
	// chartRef is the chart reference after payload materialization.
	chartRef string

	lines []string
}

func (s *session) render(ctx context.Context) (string, error) {
	if err := s.applyRepositoryContext(ctx); err != nil {
		return "", err
	}
	if err := s.materializeChart(); err != nil {
		return "", err
	}
	if err := s.resolveRepositories(ctx); err != nil {
		return "", err
	}

	s.lines = []string{Shebang}
	s.prologue()
	s.registerRepositories()

	var err error
	switch s.cfg.Action {
	case config.ActionInstall:
		s.install()
	case config.ActionPromotion:
		s.promotion()
	case config.ActionPush:
		err = s.push(ctx)
	case config.ActionAuth:
	}
	if err != nil {
		return "", err
	}

	return strings.Join(s.lines, "\n"), nil
}

// cmd appends a command line, prefixed with echo in dry-run mode.
func (s *session) cmd(line string) {
	if s.cfg.DryRun {
		line = "echo " + line
	}
	s.lines = append(s.lines, line)
}

// raw appends lines that are never prefixed (exports, assignments).
func (s *session) raw(lines ...string) {
	s.lines = append(s.lines, lines...)
}

func (s *session) prologue() {
	s.raw(s.helm.ExportLines(s.cfg.GoogleCredentials)...)
	if s.cfg.SwitchesContext() {
		s.cmd(`kubectl config use-context "` + s.cfg.KubeContext + `"`)
	}
	s.cmd("helm version --short -c")
}

func (s *session) credentialFlags() string {
	c := s.cfg.Credentials
	if !c.InArguments || !c.IsSet() {
		return ""
	}
	return helm.CredentialFlags(c.Username, c.Password)
}

func (s *session) registerRepositories() {
	flags := s.credentialFlags()
	for _, name := range sortedKeys(s.repos) {
		line := "helm repo add " + name + " " + s.repos[name]
		if flags != "" {
			line += " " + flags
		}
		s.cmd(line)
	}
}

func (s *session) materializeChart() error {
	s.chartRef = s.cfg.ChartReference()
	if s.cfg.ChartJSON == "" {
		return nil
	}

	files, err := chart.Decode(s.cfg.ChartJSON, s.cfg.ChartJSONGzip)
	if err != nil {
		return err
	}
	if s.cfg.DryRun {
		slog.Info("dry run, chart payload not written", "dir", defaults.ChartDir, "files", len(files))
		return nil
	}
	return chart.Materialize(s.fs, defaults.ChartDir, files)
}
