package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/codefresh-contrib/cfstep-helm/pkg/builder"
	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
	"github.com/codefresh-contrib/cfstep-helm/pkg/logging"
	"github.com/codefresh-contrib/cfstep-helm/pkg/serializer"
)

// Name is the program name.
const Name = "cfstep-helm"

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Aliases: []string{"k"},
	Usage:   "Path to kubeconfig file used for ConfigMap output (overrides KUBECONFIG env)",
}

// buildOptions are the flags of the root command.
type buildOptions struct {
	EnvFile     string        `flag:"env-file" validate:"omitempty,file"`
	Output      string        `flag:"output"`
	Timeout     time.Duration `flag:"timeout" validate:"gt=0"`
	Kubeconfig  string        `flag:"kubeconfig" validate:"omitempty,file"`
	MetricsFile string        `flag:"metrics-file"`
}

// NewRootCommand returns the command tree. version is reported by the
// version command and tagged on every log record.
func NewRootCommand(version string) *cli.Command {
	return &cli.Command{
		Name:                  Name,
		Usage:                 "Generate the Helm step script from the environment",
		Version:               version,
		HideVersion:           true,
		EnableShellCompletion: true,
		Description: `Reads the step configuration from the environment and prints a bash
script that performs the selected Helm operation.

# Actions (ACTION)

  install     upgrade --install a release (default)
  promotion   upgrade a release from the chart at /opt/chart
  push        package a chart and upload it to CHART_REPO_URL
  auth        register the CF_CTX_<name>_URL repositories only

Run "cfstep-helm vars" for every recognized variable.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit logs as JSON",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file merged into the environment; process variables win",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Script destination: file path, cm://namespace/name, or - for stdout",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.APITimeout,
				Usage: "Deadline of every control plane and repository request",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write build metrics in Prometheus text format to this file",
			},
			kubeconfigFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLogger(Name, version, logging.Options{
				Debug: cmd.Bool("debug"),
				JSON:  cmd.Bool("log-json"),
				Level: cmd.String("log-level"),
			})
			return ctx, nil
		},
		Action: runBuild,
		Commands: []*cli.Command{
			varsCmd(),
			versionCmd(),
		},
	}
}

// Execute runs the command tree with args, args[0] being the program name.
func Execute(ctx context.Context, version string, args []string) error {
	return NewRootCommand(version).Run(ctx, args)
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	opts := buildOptions{
		EnvFile:     cmd.String("env-file"),
		Output:      cmd.String("output"),
		Timeout:     cmd.Duration("timeout"),
		Kubeconfig:  cmd.String("kubeconfig"),
		MetricsFile: cmd.String("metrics-file"),
	}
	if err := validateOptions(&opts); err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		defer writeMetrics(opts.MetricsFile)
	}

	e, err := loadEnvironment(opts.EnvFile)
	if err != nil {
		return err
	}

	out, err := serializer.NewScriptWriter(opts.Output,
		serializer.WithKubeconfig(opts.Kubeconfig),
		serializer.WithStdout(stdout(cmd)))
	if err != nil {
		return err
	}

	script, err := builder.New(builder.WithTimeout(opts.Timeout)).Build(ctx, e)
	if err != nil {
		return err
	}
	return out.WriteScript(ctx, script)
}

func loadEnvironment(envFile string) (env.Environment, error) {
	e := env.FromOS()
	if envFile == "" {
		return e, nil
	}

	fileEnv, err := env.LoadFile(envFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, fmt.Sprintf("failed to load --env-file %s", envFile), err)
	}
	merged, err := e.Merge(fileEnv)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to merge --env-file", err)
	}
	return merged, nil
}

func writeMetrics(path string) {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}
