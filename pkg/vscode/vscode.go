// Package vscode inspects the VS Code C/C++ extension configuration of a
// project. Nothing found here is fatal.
package vscode

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/spf13/afero"
)

// PropertiesFile is the C/C++ extension configuration, relative to the
// project root.
var PropertiesFile = filepath.Join(".vscode", "c_cpp_properties.json")

// Status is the result of a check.
type Status int

const (
	// StatusConfigured means the file refers to compile_commands.json.
	StatusConfigured Status = iota
	// StatusNeedsUpdate means the file exists but does not refer to it.
	StatusNeedsUpdate
	// StatusUnreadable means the file exists but could not be read.
	StatusUnreadable
	// StatusMissing means there is no configuration file.
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusConfigured:
		return "configured"
	case StatusNeedsUpdate:
		return "needs-update"
	case StatusUnreadable:
		return "unreadable"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Reporter receives progress messages.
type Reporter interface {
	Success(msg string)
	Warning(msg string)
	Plain(text string)
}

// Check reports whether root's VS Code configuration uses the compilation
// database.
func Check(fsys afero.Fs, rep Reporter, root string) Status {
	logger := logging.GetLogger("vscode")
	path := filepath.Join(root, PropertiesFile)

	if !filesystem.IsFile(fsys, path) {
		rep.Warning("VS Code configuration file does not exist")
		rep.Plain("Consider creating " + filepath.ToSlash(PropertiesFile))
		return StatusMissing
	}
	rep.Success("VS Code configuration file exists")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Cannot read VS Code configuration")
		rep.Warning("Cannot read the VS Code configuration file")
		return StatusUnreadable
	}
	if strings.Contains(string(data), "compile_commands.json") {
		rep.Success("Configured to use compile_commands.json")
		return StatusConfigured
	}
	rep.Warning("VS Code configuration may need updating")
	return StatusNeedsUpdate
}
