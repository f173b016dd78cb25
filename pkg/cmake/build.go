package cmake

import (
	"context"

	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Build describes a cmake --build run.
type Build struct {
	BuildDir  string
	BuildType string
	Env       environ.Env
}

// Command returns the cmake build command.
func (b Build) Command() runner.Command {
	return runner.Command{
		Name: "cmake",
		Args: []string{"--build", b.BuildDir, "--config", b.BuildType},
		Env:  b.Env,
	}
}

// Run builds the project. Compiler warnings do not fail the build; a
// non-zero exit status does.
func (b Build) Run(ctx context.Context, r runner.Runner) error {
	logger := logging.GetLogger("cmake")
	done := logging.LogOperationStart(logger, "cmake build")
	defer done()

	res, err := r.Run(ctx, b.Command())
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			return err
		}
		return errors.Wrap(err, errors.ErrBuildFailed, "cmake build failed")
	}
	if !res.Success() {
		return errors.Newf(errors.ErrBuildFailed, "cmake build exited with code %d", res.ExitCode).
			WithDetail("exit_code", res.ExitCode)
	}
	return nil
}
