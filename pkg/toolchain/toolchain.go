// Package toolchain locates a Visual Studio C++ toolchain and captures the
// environment its vcvarsall.bat script sets up.
//
// Nothing here mutates the process environment. LoadEnvironment returns the
// variables as an environ.Env which callers pass to later commands.
package toolchain

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultRoot is where the Visual Studio installer puts editions.
const DefaultRoot = "C:/Program Files/Microsoft Visual Studio"

var (
	// DefaultVersions are searched newest first.
	DefaultVersions = []string{"2022", "2019", "2017"}
	// DefaultEditions are searched in this order within a version.
	DefaultEditions = []string{"Community", "Professional", "Enterprise"}
	// DefaultEnvAllow are the variables taken from the vcvarsall dump.
	DefaultEnvAllow = []string{"PATH", "INCLUDE", "LIB", "LIBPATH", "CL", "LINK"}
)

// Installation is a Visual Studio edition with C++ tools.
type Installation struct {
	Version string
	Edition string
	// Root is the edition directory, e.g. .../2022/Community.
	Root string
	// Vcvarsall is the environment script under Root.
	Vcvarsall string
}

func (i Installation) String() string {
	return fmt.Sprintf("Visual Studio %s %s", i.Version, i.Edition)
}

// Options configures a Locator. Zero values select the defaults.
type Options struct {
	Root     string
	Versions []string
	Editions []string
	Arch     string
	EnvAllow []string
	Order    Order
}

// Locator searches for installations on a filesystem.
type Locator struct {
	fs     afero.Fs
	opts   Options
	logger zerolog.Logger
}

// NewLocator creates a Locator.
func NewLocator(fsys afero.Fs, opts Options) *Locator {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.Versions == nil {
		opts.Versions = DefaultVersions
	}
	if opts.Editions == nil {
		opts.Editions = DefaultEditions
	}
	if opts.Arch == "" {
		opts.Arch = "x64"
	}
	if opts.EnvAllow == nil {
		opts.EnvAllow = DefaultEnvAllow
	}
	if opts.Order == "" {
		opts.Order = OrderLexical
	}
	return &Locator{fs: fsys, opts: opts, logger: logging.GetLogger("toolchain")}
}

// Find returns the first installation whose vcvarsall.bat exists, trying
// every edition of a version before moving to the next version.
func (l *Locator) Find() (Installation, bool) {
	for _, version := range l.opts.Versions {
		for _, edition := range l.opts.Editions {
			root := filepath.Join(l.opts.Root, version, edition)
			vcvars := filepath.Join(root, "VC", "Auxiliary", "Build", "vcvarsall.bat")
			if filesystem.IsFile(l.fs, vcvars) {
				l.logger.Info().Str("vcvarsall", vcvars).Msg("Found Visual Studio")
				return Installation{Version: version, Edition: edition, Root: root, Vcvarsall: vcvars}, true
			}
			l.logger.Trace().Str("path", vcvars).Msg("Not found")
		}
	}
	return Installation{}, false
}

// CompilerPath returns cl.exe of the latest MSVC tools directory of inst.
func (l *Locator) CompilerPath(inst Installation) (string, error) {
	msvc := filepath.Join(inst.Root, "VC", "Tools", "MSVC")
	versions, err := filesystem.Subdirs(l.fs, msvc)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCompilerNotFound, "cannot list %s", msvc)
	}
	latest, ok := LatestVersion(versions, l.opts.Order)
	if !ok {
		return "", errors.Newf(errors.ErrCompilerNotFound, "no MSVC tools under %s", msvc)
	}

	host := "Host" + l.opts.Arch
	cl := filepath.Join(msvc, latest, "bin", host, l.opts.Arch, "cl.exe")
	if !filesystem.IsFile(l.fs, cl) {
		return "", errors.Newf(errors.ErrCompilerNotFound, "%s does not exist", cl)
	}
	l.logger.Debug().Str("msvc", latest).Str("cl", cl).Msg("Compiler located")
	return cl, nil
}

// EnvCommand is the shell line that runs vcvarsall.bat and dumps the
// resulting environment.
func (l *Locator) EnvCommand(inst Installation) runner.Command {
	return runner.Command{
		Line:  fmt.Sprintf(`"%s" %s && set`, inst.Vcvarsall, l.opts.Arch),
		Quiet: true,
	}
}

// LoadEnvironment runs vcvarsall.bat and returns the allow-listed variables
// it sets.
func (l *Locator) LoadEnvironment(ctx context.Context, r runner.Runner, inst Installation) (environ.Env, error) {
	res, err := r.Run(ctx, l.EnvCommand(inst))
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, errors.Newf(errors.ErrCommandFailed, "vcvarsall.bat exited with code %d", res.ExitCode)
	}
	env := environ.ParseDump(res.Stdout, l.opts.EnvAllow)
	l.logger.Debug().Strs("variables", env.Keys()).Msg("Loaded compiler environment")
	return env, nil
}
