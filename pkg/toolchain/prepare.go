package toolchain

import (
	"context"
	"fmt"

	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Reporter receives progress messages.
type Reporter interface {
	Success(msg string)
	Warning(msg string)
}

// Prepared is the outcome of setting up the compiler environment.
type Prepared struct {
	// Installation is nil when no Visual Studio was found.
	Installation *Installation
	// Env holds the variables to pass to later commands. Never nil.
	Env environ.Env
	// CompilerReady reports whether cl runs with Env.
	CompilerReady bool
}

// Prepare finds an installation, loads its environment and checks that cl
// can be started. Every failure is reported as a warning and the run goes
// on; Conan's own compiler detection is the fallback.
func (l *Locator) Prepare(ctx context.Context, r runner.Runner, rep Reporter) Prepared {
	p := Prepared{Env: environ.Env{}}

	inst, ok := l.Find()
	if !ok {
		rep.Warning("Visual Studio not found, continuing anyway...")
		return p
	}
	p.Installation = &inst
	rep.Success(fmt.Sprintf("Found %s", inst))

	env, err := l.LoadEnvironment(ctx, r, inst)
	if err != nil {
		l.logger.Warn().Err(err).Msg("Loading compiler environment failed")
		rep.Warning("Cannot set up the MSVC environment, relying on Conan detection")
		return p
	}
	p.Env = env

	p.CompilerReady = CompilerAvailable(ctx, r, env)
	if p.CompilerReady {
		rep.Success("MSVC compiler environment is set")
	} else {
		rep.Warning("MSVC compiler still unavailable, relying on Conan detection")
	}
	return p
}

// CompilerAvailable reports whether cl starts and exits zero with env.
func CompilerAvailable(ctx context.Context, r runner.Runner, env environ.Env) bool {
	res, err := r.Run(ctx, runner.Command{Name: "cl", Env: env, Quiet: true})
	return err == nil && res.Success()
}
