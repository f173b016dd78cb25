package devsetup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Bootstrap a Conan + CMake development environment"
	MsgRunShort        = "Run the full setup"
	MsgCheckShort      = "Check that the required tools are installed"
	MsgCleanShort      = "Remove the build directory"
	MsgBuildShort      = "Build the project and verify compile_commands.json"
	MsgCompDBShort     = "Verify compile_commands.json and copy it to the project root"
	MsgVSCodeShort     = "Check the VS Code C/C++ configuration"
	MsgToolchainShort  = "Show the Visual Studio installation and compiler in use"
	MsgConfigShort     = "Print the effective configuration"
	MsgGuideShort      = "Show the usage guide"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgInterrupted       = "Interrupted by user"
	MsgVersionFormat     = "devsetup %s (commit %s, built %s)\n"
	MsgNoInstallation    = "No Visual Studio installation found under %s"
	MsgInstallationFound = "Found %s"
	MsgVcvarsall         = "vcvarsall: %s"
	MsgCompilerFound     = "Compiler: %s"
	MsgNotWindows        = "MSVC lookup only applies on Windows, %s uses the default compiler"
	MsgConfigFile        = "# loaded from %s\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrFormat      = "invalid output format %q"
	MsgErrRunner      = "failed to create command runner: %w"
	MsgErrRenderGuide = "failed to render guide: %w"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Config file (default is .devsetup.toml in the project root)"
	MsgFlagRoot        = "Project root (default is the current directory)"
	MsgFlagFormat      = "Output format: auto, term or text"
	MsgFlagBuildDir    = "Build directory, relative to the project root"
	MsgFlagBuildType   = "CMake build type (Debug, Release, ...)"
	MsgFlagGenerator   = "CMake generator"
	MsgFlagBuild       = "Also build the project and verify compile_commands.json"
	MsgFlagCheckVSCode = "Also check the VS Code C/C++ configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/guide.md
	guideContent string
)
