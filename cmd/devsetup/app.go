package devsetup

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/devsetup/pkg/config"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/setup"
	"github.com/arthur-debert/devsetup/pkg/ui"
	"github.com/arthur-debert/devsetup/pkg/ui/styles"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	verbosity   int
	configFile  string
	root        string
	format      string
	buildDir    string
	buildType   string
	generator   string
	build       bool
	checkVSCode bool
}

// overrides returns the config keys set explicitly on the command line.
func (g *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	out := map[string]interface{}{}
	set := func(flag, key string, value interface{}) {
		if flags.Changed(flag) {
			out[key] = value
		}
	}
	set("format", "output.format", g.format)
	set("build-dir", "build.dir", g.buildDir)
	set("build-type", "build.type", g.buildType)
	set("generator", "build.generator", g.generator)
	set("build", "steps.build", g.build)
	set("check-vscode", "steps.vscode", g.checkVSCode)
	return out
}

func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root := g.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot determine the working directory")
		}
		root = wd
	}
	cfg, err := config.Load(config.LoadOptions{
		Root:      root,
		File:      g.configFile,
		Overrides: g.overrides(cmd),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// outputFormat resolves the --format flag, falling back to configured.
func (g *globalFlags) outputFormat(cmd *cobra.Command, configured string) (ui.Format, error) {
	name := configured
	if cmd.Flags().Changed("format") {
		name = g.format
	}
	format, err := ui.ParseFormat(name)
	if err != nil {
		return ui.FormatText, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrFormat, name)
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return format.Resolve(f), nil
	}
	if format == ui.FormatAuto {
		return ui.FormatText, nil
	}
	return format, nil
}

// app is what a step command needs: configuration, a reporter on the
// command's output and a Setup wired to both.
type app struct {
	cfg   *config.Config
	rep   *ui.Reporter
	setup *setup.Setup
}

// newRunner is replaced in tests with a fake.
var newRunner = func(opts runner.Options) (runner.Runner, error) {
	return runner.NewExecRunner(opts)
}

func newApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	format, err := g.outputFormat(cmd, cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	rep := ui.NewReporter(cmd.OutOrStdout(), format)

	run, err := newRunner(runner.Options{
		Echo:             rep,
		FallbackEncoding: cfg.Output.FallbackEncoding,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrRunner, err)
	}

	return &app{
		cfg:   cfg,
		rep:   rep,
		setup: setup.New(cfg, setup.Options{Runner: run, Reporter: rep}),
	}, nil
}

// reportedError marks a failure the reporter has already explained to the
// user, so it is not printed a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Interrupted reports whether err stems from a cancelled context or a
// subprocess cut short by a signal.
func Interrupted(ctx context.Context, err error) bool {
	if errors.IsErrorCode(err, errors.ErrInterrupted) {
		return true
	}
	return ctx.Err() != nil && stderrors.Is(err, ctx.Err())
}

// HandleError prints err for the user and returns the process exit code.
func HandleError(ctx context.Context, w io.Writer, err error) int {
	if err == nil {
		return setup.ExitCode(nil)
	}
	errorStyle := styles.GetStyle("Error")
	switch {
	case Interrupted(ctx, err):
		fmt.Fprintln(w, errorStyle.Render(MsgInterrupted))
	case stderrors.As(err, new(*reportedError)):
	default:
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
	return setup.ExitCode(err)
}
