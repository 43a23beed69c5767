package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"oras.land/oras-go/v2/registry"

	"github.com/codefresh-contrib/cfstep-helm/pkg/config"
	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
	"github.com/codefresh-contrib/cfstep-helm/pkg/helm"
)

// Push diagnostics.
const (
	MsgUnsupportedProtocol = "Unsupported protocol in CHART_REPO_URL"
	MsgUnknownRepository   = "Failed to infer the Helm repository type"
)

func (s *session) upgrade(chartRef string) helm.Upgrade {
	c := s.cfg
	return helm.Upgrade{
		Release:         c.ReleaseName,
		Chart:           chartRef,
		RepoURL:         s.chartURL,
		Credentials:     s.credentialFlags(),
		Version:         c.ChartVersion,
		TillerNamespace: c.TillerNamespace,
		Namespace:       c.Namespace,
		ValuesFiles:     c.ValuesFiles,
		Sets:            c.Sets,
		StringSets:      c.StringSets,
		SetFiles:        c.SetFiles,
		RecreatePods:    c.RecreatePods,
		Wait:            c.Wait,
		Timeout:         c.Timeout,
		Extra:           c.CmdPS,
	}
}

func (s *session) install() {
	for _, line := range s.helm.RepoSetupLines(s.chartRef, s.chartURL != "") {
		s.cmd(line)
	}

	u := s.upgrade(s.chartRef)
	if s.cfg.CommitMessage != "" {
		chartDir := s.chartRef
		if s.needsFetch() {
			s.cmd(s.helm.PullCommand(s.chartRef, helm.PullOptions{
				RepoURL:     u.RepoURL,
				Version:     u.Version,
				Credentials: u.Credentials,
			}))
			chartDir = helm.FetchedChartDir(defaults.FetchDir, s.chartRef)
			u.Chart = chartDir
			u.RepoURL, u.Credentials, u.Version = "", "", ""
		}
		s.commitMessage(helm.NotesFile(chartDir))
	}

	s.cmd(helm.InstallCommand(s.helm, u))
}

// needsFetch reports whether the chart must be downloaded before its notes
// file can be edited.
func (s *session) needsFetch() bool {
	return !helm.IsLocalChart(s.chartRef) || s.chartURL != "" || s.cfg.ChartVersion != ""
}

func (s *session) commitMessage(notes string) {
	if s.cfg.DryRun {
		s.cmd(helm.SingleQuote("commit_message:" + s.cfg.CommitMessage + " to " + notes))
		return
	}
	s.raw(helm.CommitMessageLines(notes, s.cfg.CommitMessage)...)
}

func (s *session) promotion() {
	s.cmd("cd " + defaults.ChartDir + " && helm dependency update")
	s.cmd(helm.PromotionCommand(s.helm, s.upgrade(defaults.ChartDir)))
}

func (s *session) push(ctx context.Context) error {
	if s.chartURL == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, config.MsgMissingRepoURL)
	}

	isOCI := strings.HasPrefix(s.chartURL, "oci://")
	if isOCI && !s.helm.SupportsOCI() {
		return errors.WrapWithContext(errors.ErrCodeUnsupportedProtocol, MsgUnsupportedProtocol, nil,
			map[string]any{"scheme": "oci", "helm": s.helm.Version().String()})
	}

	// Resolve the upload command first so that no script is produced for an
	// unusable target.
	upload, err := s.uploadCommands(ctx, isOCI)
	if err != nil {
		return err
	}

	if !isOCI {
		line := "helm repo add remote " + s.chartURL
		if flags := s.credentialFlags(); flags != "" {
			line += " " + flags
		}
		s.cmd(line)
	}

	ref := s.chartRef
	s.cmd(fmt.Sprintf(`helm dependency build %s || helm dependency update %s || echo "dependencies cannot be updated"`, ref, ref))

	if s.cfg.DryRun {
		s.raw(`PACKAGE="` + defaults.DryRunPackage + `"`)
	} else {
		pkg := "helm package " + ref + " "
		if s.cfg.ChartVersion != "" {
			pkg += "--version " + s.cfg.ChartVersion + " "
		}
		pkg += "--destination " + defaults.PackageDir
		s.raw(`PACKAGE="$(` + pkg + ` | cut -d " " -f 8)"`)
	}

	for _, line := range upload {
		s.cmd(line)
	}
	return nil
}

func (s *session) uploadCommands(ctx context.Context, isOCI bool) ([]string, error) {
	u := s.chartURL

	switch {
	case s.chartAzure:
		blob := u + "_blobs/$(basename $PACKAGE)"
		return []string{
			"curl --fail -X PUT -T $PACKAGE " + blob + " || curl --fail -X PATCH -T $PACKAGE " + blob,
		}, nil

	case strings.HasPrefix(u, "cm://"):
		return []string{s.helm.ChartMuseumPush()}, nil

	case strings.HasPrefix(u, "s3://"):
		return []string{"helm s3 push $PACKAGE remote"}, nil

	case strings.HasPrefix(u, "gs://"):
		return []string{"helm gcs push $PACKAGE remote"}, nil

	case isOCI:
		return s.ociCommands()

	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		if err := s.detectArtifactory(ctx); err != nil {
			return nil, err
		}
		target := env.StripCredentials(u)
		if sub := strings.Trim(s.cfg.ChartSubdir, "/"); sub != "" {
			target += sub + "/"
		}
		return []string{
			"curl -u $HELMREPO_USERNAME:$HELMREPO_PASSWORD -T $PACKAGE " + target + "$(basename $PACKAGE)",
		}, nil

	default:
		return nil, errors.WrapWithContext(errors.ErrCodeUnsupportedProtocol, MsgUnsupportedProtocol, nil,
			map[string]any{"url": env.StripCredentials(u)})
	}
}

func (s *session) ociCommands() ([]string, error) {
	target := strings.TrimSuffix(strings.TrimPrefix(s.chartURL, "oci://"), "/")
	ref, err := registry.ParseReference(target)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfiguration, "invalid OCI registry reference in CHART_REPO_URL", err,
			map[string]any{"reference": target})
	}
	if ref.Reference != "" {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfiguration, "OCI push target must not carry a tag or digest", nil,
			map[string]any{"reference": target})
	}

	var lines []string
	if s.cfg.Credentials.IsSet() {
		lines = append(lines, "echo $HELMREPO_PASSWORD | helm registry login "+ref.Registry+" --username $HELMREPO_USERNAME --password-stdin")
	}
	lines = append(lines, "helm push $PACKAGE oci://"+ref.Registry+"/"+ref.Repository)
	return lines, nil
}

func (s *session) detectArtifactory(ctx context.Context) error {
	if s.cfg.SkipRepoValidation || s.cfg.DryRun {
		repositoryProbeTotal.WithLabelValues("skipped").Inc()
		slog.Debug("repository probe skipped", "skipValidation", s.cfg.SkipRepoValidation, "dryRun", s.cfg.DryRun)
		return nil
	}

	ok, err := s.detector.IsArtifactory(ctx, s.chartURL, s.cfg.Credentials)
	if err != nil {
		repositoryProbeTotal.WithLabelValues("error").Inc()
		return err
	}
	if !ok {
		repositoryProbeTotal.WithLabelValues("unknown").Inc()
		return errors.WrapWithContext(errors.ErrCodeRepositoryType, MsgUnknownRepository, nil,
			map[string]any{"url": env.StripCredentials(s.chartURL)})
	}
	repositoryProbeTotal.WithLabelValues("artifactory").Inc()
	return nil
}
