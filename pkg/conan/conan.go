// Package conan installs a project's Conan dependencies into the build
// directory.
package conan

import (
	"context"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Install describes one conan install invocation.
type Install struct {
	SourceDir string
	BuildDir  string
	BuildType string
	ExtraArgs []string
}

// Command returns the conan install command line.
func (i Install) Command() runner.Command {
	args := []string{
		"install", i.SourceDir,
		"--output-folder=" + i.BuildDir,
		"--build=missing",
		"-s", "build_type=" + i.BuildType,
	}
	args = append(args, i.ExtraArgs...)
	return runner.Command{Name: "conan", Args: args, Check: true}
}

// Run installs the dependencies. Success means conan exited with status
// zero; its output is not inspected.
func (i Install) Run(ctx context.Context, r runner.Runner) error {
	logger := logging.GetLogger("conan")
	done := logging.LogOperationStart(logger, "conan install")
	defer done()

	if _, err := r.Run(ctx, i.Command()); err != nil {
		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			return err
		}
		return errors.Wrap(err, errors.ErrDependencyInstallFailed, "conan install failed").
			WithDetail("build_dir", i.BuildDir)
	}
	return nil
}

// FailureHints lists the usual reasons conan install fails.
func FailureHints() []string {
	return []string{
		"Conan 2 is not installed correctly",
		"The Conan profile is misconfigured (try: conan profile detect)",
		"Network connection problems",
		"Permission problems",
	}
}
