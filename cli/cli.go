package cli

import (
	"context"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/q3/cli/cmd"
	"github.com/ardnew/q3/pkg"
)

// baseConfig is the base name of the settings file.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
const defaultDirMode = 0o700

// CLI is the top-level command-line interface for q3.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Show   cmd.Show   `cmd:"" default:"withargs" help:"Resolve a document and print its fragments."`
	Export cmd.Export `cmd:""                    help:"Resolve a document and export its fragments."`
	View   cmd.View   `cmd:""                    help:"Browse a document, reloading on change."`
	Init   cmd.Init   `cmd:""                    help:"Write an example document."`
}

// Run executes the q3 CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	args []string,
	opts ...kong.Option,
) error {
	var cli CLI

	if err := pkg.MkdirAll(defaultDirMode); err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version(),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		append([]kong.Option{
			kong.Name(pkg.Name),
			kong.Description(pkg.Description),
			kong.UsageOnError(),
			kong.Exit(exit),
			kong.ExplicitGroups(
				[]kong.Group{cli.Log.group(), cli.Pprof.group()},
			),
			kong.BindSingletonProvider(func() context.Context {
				return ctx
			}),
			kong.ConfigureHelp(
				kong.HelpOptions{
					Compact:             true,
					Summary:             true,
					Tree:                true,
					NoExpandSubcommands: true,
				}),
			kong.Configuration(kong.JSON, configFilePath+".json"),
			kong.Configuration(resolve, configFilePath+".yaml", configFilePath+".yml"),
			vars,
		}, opts...)...,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
