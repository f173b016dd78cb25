// Package cleaner brings a build directory back to a state CMake can
// configure from scratch.
package cleaner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/procs"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Outcome describes what Clean left behind.
type Outcome int

const (
	// OutcomeAbsent means there was no build directory.
	OutcomeAbsent Outcome = iota
	// OutcomeRemoved means the whole build directory was deleted.
	OutcomeRemoved
	// OutcomePartial means only the CMake cache entries were deleted.
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAbsent:
		return "absent"
	case OutcomeRemoved:
		return "removed"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// DefaultProcesses are the programs that commonly keep build outputs open.
var DefaultProcesses = []string{"cmake", "ninja", "cl", "link", "conan", "msbuild"}

// DefaultCachePaths are the CMake cache entries, relative to the build dir.
var DefaultCachePaths = []string{"CMakeCache.txt", "cmake_install.cmake", "CMakeFiles"}

// DefaultWait is the pause between termination requests and deletion.
const DefaultWait = 3 * time.Second

// Reporter receives progress messages.
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Numbered(heading string, items ...string)
}

// Options configures a Cleaner. Zero values select the defaults.
type Options struct {
	Processes  []string
	Wait       time.Duration
	CachePaths []string
}

// Cleaner deletes a build directory.
type Cleaner struct {
	fs     afero.Fs
	term   procs.Terminator
	rep    Reporter
	opts   Options
	logger zerolog.Logger

	// Sleep waits for terminated processes. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Cleaner.
func New(fsys afero.Fs, term procs.Terminator, rep Reporter, opts Options) *Cleaner {
	if opts.Processes == nil {
		opts.Processes = DefaultProcesses
	}
	if opts.CachePaths == nil {
		opts.CachePaths = DefaultCachePaths
	}
	return &Cleaner{
		fs:     fsys,
		term:   term,
		rep:    rep,
		opts:   opts,
		logger: logging.GetLogger("cleaner"),
		Sleep:  sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Clean removes dir. A missing directory succeeds without touching
// anything. When the directory cannot be removed for a reason other than
// permissions, the CMake cache entries are removed instead and
// OutcomePartial is returned.
func (c *Cleaner) Clean(ctx context.Context, dir string) (Outcome, error) {
	done := logging.LogOperationStart(c.logger, "clean")
	defer done()

	if !filesystem.Exists(c.fs, dir) {
		c.rep.Info("Build directory does not exist, nothing to clean")
		return OutcomeAbsent, nil
	}
	c.rep.Info("Build directory exists, cleaning...")

	c.term.Terminate(ctx, c.opts.Processes)

	c.rep.Info("Waiting for processes to exit...")
	if err := c.Sleep(ctx, c.opts.Wait); err != nil {
		return OutcomeAbsent, errors.Wrap(err, errors.ErrInterrupted, "cleanup interrupted")
	}

	c.removeCaches(dir)

	err := c.fs.RemoveAll(dir)
	if err == nil {
		c.logger.Info().Str("dir", dir).Msg("Build directory removed")
		c.rep.Success("Build directory fully cleaned")
		return OutcomeRemoved, nil
	}

	if stderrors.Is(err, fs.ErrPermission) {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("Build directory is locked")
		c.rep.Error("Cannot delete the build directory, it may be in use")
		c.rep.Numbered("Please do the following manually:",
			"Close all terminals and VS Code",
			"Delete the build directory by hand",
			"Run devsetup again",
		)
		return OutcomeAbsent, errors.Wrap(err, errors.ErrCleanupDenied, "build directory is locked").
			WithDetail("dir", dir)
	}

	c.logger.Warn().Err(err).Str("dir", dir).Msg("Build directory removal failed, falling back to partial cleanup")
	c.rep.Error(fmt.Sprintf("Failed to delete the build directory: %v", err))
	c.rep.Info("Trying to remove only the CMake cache files...")

	if err := c.removeCachesStrict(dir); err != nil {
		c.rep.Error(fmt.Sprintf("Partial cleanup failed too: %v", err))
		return OutcomeAbsent, errors.Wrap(err, errors.ErrCleanupFailed, "partial cleanup failed").
			WithDetail("dir", dir)
	}
	c.rep.Warning("Partial cleanup done, some files may remain")
	return OutcomePartial, nil
}

// removeCaches deletes each cache entry, warning about the ones that fail.
func (c *Cleaner) removeCaches(dir string) {
	for _, name := range c.opts.CachePaths {
		path := filepath.Join(dir, name)
		if !filesystem.Exists(c.fs, path) {
			continue
		}
		isDir := filesystem.IsDir(c.fs, path)
		if err := c.remove(path, isDir); err != nil {
			c.logger.Debug().Err(err).Str("path", path).Msg("Cache removal failed")
			c.rep.Warning(fmt.Sprintf("Cannot delete CMake cache %s: %v", name, err))
			continue
		}
		if isDir {
			c.rep.Info("Deleted CMake cache directory: " + name)
		} else {
			c.rep.Info("Deleted CMake cache file: " + name)
		}
	}
}

// removeCachesStrict deletes each cache entry and stops at the first error.
func (c *Cleaner) removeCachesStrict(dir string) error {
	for _, name := range c.opts.CachePaths {
		path := filepath.Join(dir, name)
		if !filesystem.Exists(c.fs, path) {
			continue
		}
		if err := c.remove(path, filesystem.IsDir(c.fs, path)); err != nil {
			return err
		}
		c.rep.Info("Deleted: " + name)
	}
	return nil
}

func (c *Cleaner) remove(path string, isDir bool) error {
	if isDir {
		return c.fs.RemoveAll(path)
	}
	return c.fs.Remove(path)
}
