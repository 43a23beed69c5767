package helm

import (
	"regexp"
	"strings"

	"github.com/codefresh-contrib/cfstep-helm/pkg/config"
	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
)

// CommandBuilder renders the parts of the script whose syntax differs between
// Helm generations.
type CommandBuilder interface {
	// Version is the Helm generation this builder targets.
	Version() config.HelmVersion
	// ExportLines are the environment exports of the script prologue.
	ExportLines(googleCredentials bool) []string
	// UpgradeCommand is the upgrade-or-install command without any flags.
	UpgradeCommand(release, chart string) string
	// RepoSetupLines run before install when no chart repository is configured.
	RepoSetupLines(chart string, hasRepoURL bool) []string
	// PullCommand downloads and unpacks chart into the fetch directory.
	PullCommand(chart string, opts PullOptions) string
	// TillerFlag renders --tiller-namespace, or nothing when unsupported.
	TillerFlag(namespace string) string
	// TimeoutFlag renders --timeout in the syntax of this generation.
	TimeoutFlag(timeout string) string
	// ChartMuseumPush uploads $PACKAGE to the "remote" ChartMuseum repository.
	ChartMuseumPush() string
	// SupportsOCI reports whether oci:// registries can be pushed to.
	SupportsOCI() bool
}

// PullOptions are the flags of a chart download.
type PullOptions struct {
	RepoURL     string
	Version     string
	Credentials string
}

// New returns the builder for v.
func New(v config.HelmVersion) CommandBuilder {
	if v == config.Helm2 {
		return helm2{}
	}
	return helm3{}
}

func exportLines(googleCredentials bool) []string {
	lines := []string{
		"export HELM_REPO_ACCESS_TOKEN=$CF_API_KEY",
		"export HELM_REPO_AUTH_HEADER=Authorization",
	}
	if googleCredentials {
		lines = append(lines,
			"echo -E $GOOGLE_APPLICATION_CREDENTIALS_JSON > "+defaults.GoogleCredentialsPath,
			"export GOOGLE_APPLICATION_CREDENTIALS="+defaults.GoogleCredentialsPath)
	}
	return lines
}

func pullFlags(opts PullOptions) string {
	var b strings.Builder
	if opts.RepoURL != "" {
		b.WriteString("--repo " + opts.RepoURL + " ")
		b.WriteString(opts.Credentials)
	}
	if opts.Version != "" {
		b.WriteString("--version " + opts.Version + " ")
	}
	b.WriteString("--untar --untardir " + defaults.FetchDir)
	return b.String()
}

type helm2 struct{}

func (helm2) Version() config.HelmVersion { return config.Helm2 }

func (helm2) ExportLines(googleCredentials bool) []string { return exportLines(googleCredentials) }

func (helm2) UpgradeCommand(release, chart string) string {
	return "helm upgrade " + release + " " + chart + " --install --force --reset-values "
}

func (helm2) RepoSetupLines(chart string, hasRepoURL bool) []string {
	if hasRepoURL {
		return nil
	}
	return []string{"helm dependency build " + chart}
}

func (helm2) PullCommand(chart string, opts PullOptions) string {
	return "helm fetch " + chart + " " + pullFlags(opts)
}

func (helm2) TillerFlag(namespace string) string {
	if namespace == "" {
		return ""
	}
	return "--tiller-namespace " + namespace + " "
}

func (helm2) TimeoutFlag(timeout string) string {
	if timeout == "" {
		return ""
	}
	return "--timeout " + timeout + " "
}

func (helm2) ChartMuseumPush() string { return "helm push $PACKAGE remote" }

func (helm2) SupportsOCI() bool { return false }

type helm3 struct{}

var bareSeconds = regexp.MustCompile(`^[0-9]+$`)

func (helm3) Version() config.HelmVersion { return config.Helm3 }

func (helm3) ExportLines(googleCredentials bool) []string { return exportLines(googleCredentials) }

func (helm3) UpgradeCommand(release, chart string) string {
	return "helm upgrade " + release + " " + chart + " --install --reset-values "
}

func (helm3) RepoSetupLines(string, bool) []string { return nil }

func (helm3) PullCommand(chart string, opts PullOptions) string {
	return "helm pull " + chart + " " + pullFlags(opts)
}

func (helm3) TillerFlag(string) string { return "" }

// TimeoutFlag converts bare seconds to a Go duration as Helm 3 expects.
func (helm3) TimeoutFlag(timeout string) string {
	if timeout == "" {
		return ""
	}
	if bareSeconds.MatchString(timeout) {
		timeout += "s"
	}
	return "--timeout " + timeout + " "
}

func (helm3) ChartMuseumPush() string { return "helm cm-push $PACKAGE remote" }

func (helm3) SupportsOCI() bool { return true }
