// Package setup runs the devsetup steps in order and reports the outcome.
//
// The flow stops at the first hard failure: missing tools, a build
// directory that cannot be cleaned, a failed conan install or a failed
// cmake configure. Compiler environment problems are only warnings.
package setup

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/devsetup/pkg/cleaner"
	"github.com/arthur-debert/devsetup/pkg/cmake"
	"github.com/arthur-debert/devsetup/pkg/compdb"
	"github.com/arthur-debert/devsetup/pkg/conan"
	"github.com/arthur-debert/devsetup/pkg/config"
	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/probe"
	"github.com/arthur-debert/devsetup/pkg/procs"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/toolchain"
	"github.com/arthur-debert/devsetup/pkg/ui"
	"github.com/arthur-debert/devsetup/pkg/vscode"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options holds the collaborators of a Setup. Nil fields get the real
// implementations.
type Options struct {
	Runner     runner.Runner
	FS         afero.Fs
	Terminator procs.Terminator
	Reporter   *ui.Reporter

	// Platform and Arch default to runtime.GOOS and runtime.GOARCH.
	Platform string
	Arch     string
}

// Setup sequences the steps for one project.
type Setup struct {
	cfg      *config.Config
	run      runner.Runner
	fs       afero.Fs
	term     procs.Terminator
	rep      *ui.Reporter
	platform string
	arch     string
	logger   zerolog.Logger

	// compiler is filled in by PrepareCompiler
	compiler toolchain.Prepared
}

// New creates a Setup. Runner must be set.
func New(cfg *config.Config, opts Options) *Setup {
	s := &Setup{
		cfg:      cfg,
		run:      opts.Runner,
		fs:       opts.FS,
		term:     opts.Terminator,
		rep:      opts.Reporter,
		platform: opts.Platform,
		arch:     opts.Arch,
		logger:   logging.GetLogger("setup"),
		compiler: toolchain.Prepared{Env: environ.Env{}},
	}
	if s.fs == nil {
		s.fs = filesystem.OS()
	}
	if s.term == nil {
		s.term = procs.New(s.run)
	}
	if s.rep == nil {
		s.rep = ui.NewReporter(io.Discard, ui.FormatText)
	}
	if s.platform == "" {
		s.platform = runtime.GOOS
	}
	if s.arch == "" {
		s.arch = runtime.GOARCH
	}
	return s
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// Run executes the full flow.
func (s *Setup) Run(ctx context.Context) error {
	done := logging.LogOperationStart(s.logger, "setup")
	defer done()

	s.rep.Banner("Conan + CMake + VS Code IntelliSense setup",
		"Cross-platform: Windows/Linux/macOS",
		fmt.Sprintf("Platform: %s %s", s.platform, s.arch),
	)

	s.rep.Step(0, "Check required tools")
	if err := s.CheckTools(ctx); err != nil {
		s.rep.Error("Required tools are missing, install them and retry")
		return err
	}

	s.rep.Step(1, "Check and clean the build directory")
	if err := s.Clean(ctx); err != nil {
		return err
	}

	s.rep.Step(2, "Install Conan dependencies")
	if err := s.InstallDependencies(ctx); err != nil {
		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			return err
		}
		s.rep.Error("Conan install failed")
		s.rep.Numbered("Possible causes:", conan.FailureHints()...)
		return err
	}
	s.rep.Success("Conan dependencies installed")

	s.rep.Step(3, "Set up the compiler environment")
	s.PrepareCompiler(ctx)

	s.rep.Step(4, "Configure the CMake project")
	if err := s.Configure(ctx); err != nil {
		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			return err
		}
		s.rep.Numbered("Possible solutions:", cmake.FailureHints()...)
		return err
	}
	s.rep.Success("CMake configuration succeeded")

	var compdbErr error
	if s.cfg.Steps.Build {
		s.rep.Step(5, "Build the project (generates compile_commands.json)")
		if err := s.Build(ctx); err != nil {
			if errors.IsErrorCode(err, errors.ErrInterrupted) {
				return err
			}
			s.rep.Warning(fmt.Sprintf("Build did not finish cleanly: %v", err))
		}

		s.rep.Step(6, "Check generated files")
		_, compdbErr = s.CompDB()
	}

	if s.cfg.Steps.VSCode {
		s.rep.Step(7, "Check VS Code configuration")
		s.VSCode()
	}

	return s.summary(compdbErr)
}

func (s *Setup) summary(compdbErr error) error {
	s.rep.Rule("Setup complete")
	if compdbErr != nil {
		s.rep.Error("Problems occurred during setup, check the messages above")
		return compdbErr
	}

	s.rep.Bullets("Celebrate", "🎉 You can now enjoy:",
		"Conan manages every dependency",
		"VS Code IntelliSense picks up all include paths",
		"Accurate code completion and error detection",
		"IntelliSense updates after every build",
	)
	s.rep.Plain("")
	s.rep.Bullets("Hint", "💡 Usage:",
		"Add a dependency: edit conanfile.txt, then run devsetup again",
		"Build the project: cmake --build "+s.cfg.Build.Dir,
		"Clean rebuild: devsetup",
	)
	return nil
}

// CheckTools verifies that every configured tool runs.
func (s *Setup) CheckTools(ctx context.Context) error {
	tools := make([]probe.Tool, 0, len(s.cfg.Tools))
	for _, t := range s.cfg.Tools {
		tools = append(tools, probe.Tool{Name: t.Name, Command: t.Command, Hint: t.Hint})
	}
	if len(tools) == 0 {
		tools = probe.DefaultTools()
	}
	_, err := probe.Check(ctx, s.run, s.rep, tools)
	return err
}

// Clean removes the build directory.
func (s *Setup) Clean(ctx context.Context) error {
	c := cleaner.New(s.fs, s.term, s.rep, cleaner.Options{
		Processes:  s.cfg.Cleanup.Processes,
		Wait:       s.cfg.Cleanup.Wait,
		CachePaths: s.cfg.Cleanup.CachePaths,
	})
	outcome, err := c.Clean(ctx, s.cfg.BuildDir())
	s.logger.Debug().Str("outcome", outcome.String()).Msg("Cleanup finished")
	return err
}

// InstallDependencies runs conan install into the build directory.
func (s *Setup) InstallDependencies(ctx context.Context) error {
	return conan.Install{
		SourceDir: s.cfg.SourceDir(),
		BuildDir:  s.cfg.BuildDir(),
		BuildType: s.cfg.Build.Type,
		ExtraArgs: s.cfg.Conan.ExtraArgs,
	}.Run(ctx, s.run)
}

func (s *Setup) windows() bool {
	return s.platform == "windows"
}

// Locator returns an MSVC locator built from the toolchain configuration.
func (s *Setup) Locator() *toolchain.Locator {
	order, err := toolchain.ParseOrder(s.cfg.Toolchain.VersionOrder)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Falling back to lexical version order")
	}
	return toolchain.NewLocator(s.fs, toolchain.Options{
		Root:     s.cfg.Toolchain.Root,
		Versions: s.cfg.Toolchain.Versions,
		Editions: s.cfg.Toolchain.Editions,
		Arch:     s.cfg.Toolchain.Arch,
		EnvAllow: s.cfg.Toolchain.EnvAllow,
		Order:    order,
	})
}

// PrepareCompiler loads the MSVC environment on Windows. Elsewhere the
// default compiler is used as is.
func (s *Setup) PrepareCompiler(ctx context.Context) toolchain.Prepared {
	if !s.windows() {
		s.rep.Info(fmt.Sprintf("Using the default compiler on %s", s.platform))
		return s.compiler
	}
	s.compiler = s.Locator().Prepare(ctx, s.run, s.rep)
	return s.compiler
}

// Configure runs cmake configure with the environment from
// PrepareCompiler. On Windows, when cl cannot be started as is, the
// compiler of the located installation is passed explicitly.
func (s *Setup) Configure(ctx context.Context) error {
	cfg := cmake.Configure{
		SourceDir:     s.cfg.SourceDir(),
		BuildDir:      s.cfg.BuildDir(),
		Generator:     s.cfg.Build.Generator,
		BuildType:     s.cfg.Build.Type,
		ToolchainFile: s.cfg.ToolchainFile(),
		Env:           s.compiler.Env,
	}
	if s.windows() && !s.compiler.CompilerReady && s.compiler.Installation != nil {
		// cl may already be on PATH even when vcvarsall failed.
		if toolchain.CompilerAvailable(ctx, s.run, s.compiler.Env) {
			s.logger.Debug().Msg("cl is invocable, no explicit compiler")
		} else if cl, err := s.Locator().CompilerPath(*s.compiler.Installation); err != nil {
			s.logger.Debug().Err(err).Msg("No explicit compiler")
		} else {
			cfg.Compiler = cl
		}
	}

	rules := make([]cmake.Rule, 0, len(s.cfg.Diagnostics.Rules))
	for _, r := range s.cfg.Diagnostics.Rules {
		rules = append(rules, cmake.Rule{Name: r.Name, All: r.Match, Hint: r.Hint})
	}
	return cmake.NewConfigurator(s.fs, s.run, s.rep, rules...).Run(ctx, cfg)
}

// Build runs cmake --build.
func (s *Setup) Build(ctx context.Context) error {
	return cmake.Build{
		BuildDir:  s.cfg.BuildDir(),
		BuildType: s.cfg.Build.Type,
		Env:       s.compiler.Env,
	}.Run(ctx, s.run)
}

// CompDB verifies the compilation database and copies it to the root.
func (s *Setup) CompDB() (compdb.Report, error) {
	rootCopy := filepath.Join(s.cfg.RootDir(), compdb.FileName)
	return compdb.Verify(s.fs, s.rep, s.cfg.CompileCommandsPath(), rootCopy)
}

// VSCode checks the VS Code configuration.
func (s *Setup) VSCode() vscode.Status {
	return vscode.Check(s.fs, s.rep, s.cfg.RootDir())
}
