package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// Action selects what the generated script does.
type Action string

const (
	ActionInstall   Action = "install"
	ActionPush      Action = "push"
	ActionPromotion Action = "promotion"
	ActionAuth      Action = "auth"
)

// Actions lists every supported action.
var Actions = []Action{ActionInstall, ActionPush, ActionPromotion, ActionAuth}

// ParseAction parses an action name case-insensitively. Empty means install.
func ParseAction(s string) (Action, error) {
	v := Action(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return ActionInstall, nil
	}
	for _, a := range Actions {
		if a == v {
			return a, nil
		}
	}

	msg := fmt.Sprintf("Unsupported ACTION %q", s)
	if suggestion := suggestAction(string(v)); suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return "", errors.WrapWithContext(errors.ErrCodeInvalidConfiguration, msg, nil,
		map[string]any{"action": s})
}

// suggestAction returns the closest known action within an edit distance of 3.
func suggestAction(v string) string {
	best, bestDist := "", 4
	for _, a := range Actions {
		if d := levenshtein.ComputeDistance(v, string(a)); d < bestDist {
			best, bestDist = string(a), d
		}
	}
	return best
}

// HelmVersion is the Helm CLI generation the script targets.
type HelmVersion int

const (
	Helm2 HelmVersion = 2
	Helm3 HelmVersion = 3
)

// ParseHelmVersion selects Helm 2 for versions starting with "2", Helm 3 otherwise.
func ParseHelmVersion(s string) HelmVersion {
	if strings.HasPrefix(strings.TrimPrefix(strings.TrimSpace(s), "v"), "2") {
		return Helm2
	}
	return Helm3
}

// String implements fmt.Stringer.
func (v HelmVersion) String() string {
	return fmt.Sprintf("helm%d", int(v))
}

// Config is the typed view of the environment for one build.
type Config struct {
	Action      Action
	HelmVersion HelmVersion

	KubeContext     string
	Namespace       string
	TillerNamespace string

	ChartName     string
	ChartRef      string
	ChartRepoURL  string
	ChartVersion  string
	ChartSubdir   string
	ChartJSON     string
	ChartJSONGzip bool
	ReleaseName   string

	DryRun        bool
	RecreatePods  bool
	Wait          bool
	Timeout       string
	CmdPS         string
	CommitMessage string

	Credentials        env.Credentials
	SkipRepoValidation bool
	RepositoryContext  string

	HelmRepoToken string
	ClientID      string
	ClientSecret  string
	Tenant        string

	// GoogleCredentials reports whether GOOGLE_APPLICATION_CREDENTIALS_JSON is present.
	GoogleCredentials bool

	APIKey   string
	APIURL   string
	BuildURL string
	HostIP   string

	ValuesFiles []string
	Sets        map[string]string
	StringSets  map[string]string
	SetFiles    map[string]string

	// Repos maps named repositories to their raw URLs.
	Repos map[string]string
	// RepoNames are the keys of Repos in variable-name order.
	RepoNames []string
}

// Load derives a Config from e. Only the action is validated here; required
// fields depend on the action and are checked by Validate.
func Load(e env.Environment) (*Config, error) {
	action, err := ParseAction(e.String(env.Action))
	if err != nil {
		return nil, err
	}

	_, google := e.Lookup(env.GoogleCredentialsJSON)
	scanned := env.Scan(e)

	c := &Config{
		Action:      action,
		HelmVersion: ParseHelmVersion(e.StringDefault(env.HelmVersion, "3")),

		KubeContext:     e.String(env.KubeContext),
		Namespace:       e.String(env.Namespace),
		TillerNamespace: e.String(env.TillerNS),

		ChartName:     e.String(env.ChartName),
		ChartRef:      e.String(env.ChartRef),
		ChartRepoURL:  e.String(env.ChartRepoURL),
		ChartVersion:  e.String(env.ChartVersion),
		ChartSubdir:   e.String(env.ChartSubdir),
		ChartJSON:     e.String(env.ChartJSON),
		ChartJSONGzip: e.Bool(env.ChartJSONGz),
		ReleaseName:   e.String(env.ReleaseName),

		DryRun:        e.Bool(env.DryRun),
		RecreatePods:  e.Bool(env.RecreatePods),
		Wait:          e.Bool(env.Wait),
		Timeout:       e.String(env.Timeout),
		CmdPS:         e.String(env.CmdPS),
		CommitMessage: e.String(env.CommitMessage),

		Credentials: env.Credentials{
			Username:    e.String(env.RepoUsername),
			Password:    e.String(env.RepoPassword),
			InArguments: e.Bool(env.CredentialsInArguments),
		},
		SkipRepoValidation: e.Bool(env.SkipRepoValidation),
		RepositoryContext:  e.String(env.RepositoryContext),

		HelmRepoToken: e.String(env.HelmRepoToken),
		ClientID:      e.String(env.ClientID),
		ClientSecret:  e.String(env.ClientSecret),
		Tenant:        e.String(env.Tenant),

		GoogleCredentials: google,

		APIKey:   e.String(env.APIKey),
		APIURL:   e.String(env.APIURL),
		BuildURL: e.String(env.BuildURL),
		HostIP:   e.String(env.HostIP),

		ValuesFiles: scanned.ValuesFiles,
		Sets:        scanned.Sets,
		StringSets:  scanned.StringSets,
		SetFiles:    scanned.SetFiles,
		Repos:       scanned.Repos,
		RepoNames:   scanned.RepoNames,
	}

	slog.Debug("configuration loaded",
		"action", c.Action,
		"helm", c.HelmVersion.String(),
		"dryRun", c.DryRun,
		"repos", len(c.Repos),
		"valuesFiles", len(c.ValuesFiles),
		"sets", len(c.Sets)+len(c.StringSets)+len(c.SetFiles))

	return c, nil
}

// Required-field diagnostics.
const (
	MsgMissingKubeContext = "Must set KUBE_CONTEXT in environment (Name of Kubernetes cluster as named in Codefresh)"
	MsgMissingChartRef    = "Must set CHART_REF in the environment (this should be a reference to the chart as Helm CLI expects)"
	MsgMissingRelease     = "Must set RELEASE_NAME in the environment (desired Helm release name)"
	MsgMissingRepoURL     = "Must set CHART_REPO_URL in the environment, otherwise attach a Helm Repo context (prefixed with CF_CTX_)"
)

// Validate checks the fields the action requires. The chart repository URL
// of push is resolved later and checked by the builder.
func (c *Config) Validate() error {
	switch c.Action {
	case ActionInstall:
		if c.KubeContext == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingKubeContext)
		}
		if c.ReleaseName == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingRelease)
		}
		if c.ChartReference() == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingChartRef)
		}
	case ActionPromotion:
		if c.KubeContext == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingKubeContext)
		}
		if c.ReleaseName == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingRelease)
		}
	case ActionPush:
		if c.ChartReference() == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, MsgMissingChartRef)
		}
	case ActionAuth:
	default:
		return errors.New(errors.ErrCodeInvalidConfiguration, fmt.Sprintf("Unsupported ACTION %q", c.Action))
	}
	return nil
}

// ChartReference is the materialization directory when CHART_JSON carries an
// inline chart, otherwise CHART_REF falling back to CHART_NAME.
func (c *Config) ChartReference() string {
	if c.ChartJSON != "" {
		return defaults.ChartDir
	}
	if c.ChartRef != "" {
		return c.ChartRef
	}
	return c.ChartName
}

// SwitchesContext reports whether the script selects a kube context.
func (c *Config) SwitchesContext() bool {
	switch c.Action {
	case ActionInstall, ActionPromotion:
		return true
	case ActionAuth:
		return c.KubeContext != ""
	default:
		return false
	}
}

// HasServicePrincipal reports whether all service principal fields are set.
func (c *Config) HasServicePrincipal() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Tenant != ""
}
