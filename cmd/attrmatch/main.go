// Command attrmatch resolves a variant selection against a component
// declaration file, printing the selected configuration/variant or an
// explanation of why selection failed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	attrmatch "github.com/mharbol/go-attrmatch"
	"github.com/mharbol/go-attrmatch/describe"
	"github.com/mharbol/go-attrmatch/matching"
)

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:                  "attrmatch",
		Usage:                 "Attribute-based variant selection",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			selectCmd(),
		},
	}
	return cmd.Run(ctx, args)
}

func selectCmd() *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "Select the variant of a component matching the requested attributes",
		Description: `Load a component declaration file (Starlark syntax by default, YAML for
.yaml/.yml files), build a request from the --attr flags, and run the
two-round selection: configurations first, then the winning configuration's
sub-variants.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the component declaration file",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "attr",
				Aliases: []string{"a"},
				Usage:   "Requested attribute as name=value (repeatable)",
			},
			&cli.StringFlag{
				Name:  "configuration",
				Usage: "Select this configuration by name instead of matching round 1",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log selection diagnostics to stderr",
			},
		},
		Action: selectAction,
	}
}

func selectAction(_ context.Context, cmd *cli.Command) error {
	def, err := loadDefinition(cmd.String("file"))
	if err != nil {
		return err
	}

	requested, err := attrmatch.ParseRequest(def.Registry, cmd.StringSlice("attr"))
	if err != nil {
		return err
	}

	var opts []attrmatch.Option
	if cmd.Bool("verbose") {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, attrmatch.WithLogger(logger))
	}

	var res *attrmatch.Resolution
	if name := cmd.String("configuration"); name != "" {
		res, err = attrmatch.ResolveConfiguration(def.Component, name, requested, def.Schema, opts...)
	} else {
		res, err = attrmatch.Resolve(def.Component, requested, def.Schema, opts...)
	}
	if err != nil {
		var trace *matching.Trace
		if res != nil {
			trace = res.Trace
		}
		return fmt.Errorf("%s", describe.Failure(err, trace))
	}

	fmt.Println(describe.Selection(res.Selection))
	return nil
}

func loadDefinition(path string) (*attrmatch.Definition, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return attrmatch.LoadDefinitionFile(path)
	default:
		return attrmatch.ParseDefinitionFile(path)
	}
}
