// Package compdb checks the compilation database CMake exported and makes
// it visible at the project root, where editors look for it.
package compdb

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/spf13/afero"
)

// FileName is the conventional name of the compilation database.
const FileName = "compile_commands.json"

// Entry is one translation unit of a compilation database.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Reporter receives progress messages.
type Reporter interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Plain(text string)
}

// Report summarises a verified database.
type Report struct {
	Path string
	Size int64
	// Entries is -1 when the file could not be parsed.
	Entries int
	// Copied is true when the file was copied to the root during this run.
	Copied bool
}

// Verify checks that path exists, reports its size and number of entries,
// and copies it to rootCopy unless a file is already there. A failed copy
// is only a warning.
func Verify(fsys afero.Fs, rep Reporter, path, rootCopy string) (Report, error) {
	logger := logging.GetLogger("compdb")

	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		rep.Error(FileName + " not found")
		rep.Plain("Possible causes: the build failed or the generator does not support compile command export")
		return Report{}, errors.Newf(errors.ErrCompDBMissing, "%s not found", path).WithDetail("path", path)
	}

	report := Report{Path: path, Size: info.Size(), Entries: -1}
	rep.Success(fmt.Sprintf("%s generated: %s", FileName, path))
	rep.Info(fmt.Sprintf("File size: %d bytes", report.Size))

	if entries, err := Load(fsys, path); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Cannot parse compilation database")
	} else {
		report.Entries = len(entries)
		rep.Info(fmt.Sprintf("Compile entries: %d", report.Entries))
	}

	if rootCopy == "" || rootCopy == path {
		return report, nil
	}
	if filesystem.Exists(fsys, rootCopy) {
		rep.Success(FileName + " already present at the project root")
		return report, nil
	}
	if err := filesystem.CopyFile(fsys, path, rootCopy); err != nil {
		logger.Warn().Err(err).Str("dst", rootCopy).Msg("Copy failed")
		rep.Warning(fmt.Sprintf("Cannot copy %s: %v", FileName, err))
		return report, nil
	}
	report.Copied = true
	rep.Success(FileName + " copied to the project root")
	return report, nil
}

// Load parses a compilation database.
func Load(fsys afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "%s is not a compilation database", path)
	}
	return entries, nil
}
