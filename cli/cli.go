package cli

import (
	"context"
	"runtime"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skel/cli/cmd"
	"github.com/ardnew/skel/pkg"
)

// CLI is the top-level command-line interface for skel.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render  cmd.Render  `cmd:"" help:"Render a template tree into an output directory"`
	Check   cmd.Check   `cmd:"" help:"Validate a template tree against values"`
	Inspect cmd.Inspect `cmd:"" help:"Print the tokens or node tree of one template"`
}

// Run executes the skel CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// terminates early (help, version, usage errors).
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFilePath := configPath()

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.JobsIdentifier:   strconv.Itoa(runtime.GOMAXPROCS(0)),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

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
		kong.Configuration(resolve, configFilePath),
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

	defer cli.Log.start(ctx)()

	// no-op unless built with tag pprof and a mode is selected
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
