package cmake

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/spf13/afero"
)

// Reporter receives progress messages.
type Reporter interface {
	Info(msg string)
	Error(msg string)
	Numbered(heading string, items ...string)
}

// Configure describes a cmake configure run.
type Configure struct {
	SourceDir     string
	BuildDir      string
	Generator     string
	BuildType     string
	ToolchainFile string

	// Compiler, when set, is passed as both the C and C++ compiler.
	Compiler string

	// Env is overlaid on the process environment for cmake.
	Env environ.Env
}

// Args returns the cmake arguments.
func (c Configure) Args() []string {
	args := []string{
		"-B", c.BuildDir,
		"-S", c.SourceDir,
		"-G", c.Generator,
		"-DCMAKE_BUILD_TYPE=" + c.BuildType,
		"-DCMAKE_EXPORT_COMPILE_COMMANDS=ON",
		"-DCMAKE_TOOLCHAIN_FILE=" + filepath.ToSlash(c.ToolchainFile),
	}
	if c.Compiler != "" {
		args = append(args,
			"-DCMAKE_C_COMPILER="+c.Compiler,
			"-DCMAKE_CXX_COMPILER="+c.Compiler,
		)
	}
	return args
}

// Command returns the cmake configure command.
func (c Configure) Command() runner.Command {
	return runner.Command{Name: "cmake", Args: c.Args(), Env: c.Env}
}

// Configurator runs cmake configure and diagnoses failures.
type Configurator struct {
	fs    afero.Fs
	run   runner.Runner
	rep   Reporter
	rules []Rule
}

// NewConfigurator creates a Configurator. extraRules are tried after
// DefaultRules.
func NewConfigurator(fsys afero.Fs, r runner.Runner, rep Reporter, extraRules ...Rule) *Configurator {
	rules := make([]Rule, 0, len(DefaultRules)+len(extraRules))
	rules = append(rules, DefaultRules...)
	rules = append(rules, extraRules...)
	return &Configurator{fs: fsys, run: r, rep: rep, rules: rules}
}

// Run configures the project. cmake is not started when the toolchain file
// is missing.
func (c *Configurator) Run(ctx context.Context, cfg Configure) error {
	logger := logging.GetLogger("cmake")
	done := logging.LogOperationStart(logger, "cmake configure")
	defer done()

	if !filesystem.IsFile(c.fs, cfg.ToolchainFile) {
		c.rep.Error("Conan toolchain file not found: " + filepath.ToSlash(cfg.ToolchainFile))
		c.rep.Info("Make sure the Conan install step completed successfully")
		return errors.Newf(errors.ErrToolchainMissing, "%s does not exist", cfg.ToolchainFile).
			WithDetail("path", cfg.ToolchainFile)
	}

	if cfg.Compiler != "" {
		c.rep.Info("Using MSVC compiler explicitly: " + cfg.Compiler)
	}

	res, err := c.run.Run(ctx, cfg.Command())
	if errors.IsErrorCode(err, errors.ErrInterrupted) {
		return err
	}
	if err == nil && res.Success() {
		return nil
	}

	c.rep.Error("CMake configuration failed")
	failure := errors.New(errors.ErrConfigurationFailed, "cmake configure failed")
	if err != nil {
		failure.Wrapped = err
	} else {
		failure.WithDetail("exit_code", res.ExitCode)
	}

	if res != nil && res.Stderr != "" {
		d := Diagnose(res.Stderr, c.rules)
		logger.Debug().Str("rule", d.Rule.Name).Bool("fallback", d.Fallback).Msg("Diagnosed configure failure")
		c.report(d)
		failure.WithDetail("diagnosis", d.Rule.Name)
	}
	return failure
}

func (c *Configurator) report(d Diagnosis) {
	if d.Fallback {
		c.rep.Info("Possible solutions:")
		c.rep.Numbered("", d.Rule.Hint...)
		return
	}
	for _, line := range d.Rule.Hint {
		c.rep.Info(line)
	}
}

// FailureHints lists what to check after a failed configure step.
func FailureHints() []string {
	return []string{
		"Make sure Ninja is installed and on PATH",
		"Make sure a C++ compiler is installed correctly",
		"Check the Conan profile",
	}
}
