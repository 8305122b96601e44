package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skui/cli/cmd"
	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/pkg"
)

// CLI is the top-level command-line interface for skui.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path    []string         `help:"Directories searched for relative source names." name:"path" sep:"," short:"I" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit."                        short:"V"`

	Check   cmd.Check   `cmd:"" default:"withargs" help:"Parse and validate sources"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format a source"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Inspect cmd.Inspect `cmd:""                    help:"Interactively inspect a source"`
}

// Run executes the skui CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".skui")

	vars := kong.Vars{
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.HistoryIdentifier:  filepath.Join(pkg.CacheDir(), "history"),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
		"version":              pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that config loading and parsing already
	// log with the requested settings, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
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
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, cmd.ConfigSelector), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path, os.Getenv(pkg.PathEnv)))

	// Apply the settings that have no TextUnmarshaler hook.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
