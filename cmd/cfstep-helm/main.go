package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/codefresh-contrib/cfstep-helm/pkg/cli"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx, version, os.Args)
	stop()
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(errors.ExitCode(err))
	}
}
