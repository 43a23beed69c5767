package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/codefresh-contrib/cfstep-helm/pkg/env"
	"github.com/codefresh-contrib/cfstep-helm/pkg/serializer"
)

type varsOptions struct {
	Format string `flag:"format" validate:"oneof=json yaml table"`
	Output string `flag:"output"`
}

func varsCmd() *cli.Command {
	return &cli.Command{
		Name:  "vars",
		Usage: "List the environment variables the step recognizes",
		Description: `Prints every recognized variable with its category and description.
Variables marked dynamic are prefixes: any suffix is accepted and becomes the
Helm value path (CUSTOM_image_tag sets image.tag).

# Examples

  cfstep-helm vars --format table
  cfstep-helm vars --format yaml --output vars.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: string(serializer.FormatTable),
				Usage: "output format (json, yaml, table)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := varsOptions{
				Format: cmd.String("format"),
				Output: cmd.String("output"),
			}
			if err := validateOptions(&opts); err != nil {
				return err
			}
			format := serializer.Format(opts.Format)

			var w *serializer.Writer
			if opts.Output == "" || opts.Output == serializer.StdoutURI {
				w = serializer.NewWriter(format, stdout(cmd))
			} else {
				var err error
				if w, err = serializer.NewFileWriterOrStdout(format, opts.Output); err != nil {
					return err
				}
			}
			defer func() { _ = w.Close() }()

			if err := w.Serialize(ctx, env.Catalog()); err != nil {
				return fmt.Errorf("failed to write variable catalog: %w", err)
			}
			return nil
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(stdout(cmd), "%s %s\n", Name, cmd.Root().Version)
			return err
		},
	}
}
