// Package procs stops processes that may hold the build directory open.
//
// Termination is best-effort: requests are fired one name at a time, errors
// are ignored, and nothing guarantees the processes have exited (or exited
// in any particular order) when Terminate returns. Callers wait afterwards.
//
// Names match the process image name exactly: taskkill /im <name>.exe on
// Windows, pkill -x <name> elsewhere. "cl" therefore never hits clang or
// clangd, and a name appearing only in another process's arguments is left
// alone.
package procs

import (
	"context"

	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Terminator asks processes, matched by name, to exit.
type Terminator interface {
	Terminate(ctx context.Context, names []string)
}

// CommandTerminator terminates processes through the platform's
// kill-by-name tool (taskkill on Windows, pkill elsewhere).
type CommandTerminator struct {
	run runner.Runner
}

var _ Terminator = (*CommandTerminator)(nil)

// New returns a Terminator that shells out through r.
func New(r runner.Runner) *CommandTerminator {
	return &CommandTerminator{run: r}
}

// Terminate implements Terminator.
func (t *CommandTerminator) Terminate(ctx context.Context, names []string) {
	logger := logging.GetLogger("procs")
	for _, name := range names {
		cmd := killCommand(name)
		cmd.Quiet = true
		if _, err := t.run.Run(ctx, cmd); err != nil {
			logger.Debug().Err(err).Str("process", name).Msg("Termination request failed")
		}
	}
}
