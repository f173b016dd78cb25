package config

import (
	"path/filepath"
	"time"
)

// Config is the effective devsetup configuration.
type Config struct {
	Project     Project     `koanf:"project"`
	Build       Build       `koanf:"build"`
	Conan       Conan       `koanf:"conan"`
	Tools       []Tool      `koanf:"tools"`
	Cleanup     Cleanup     `koanf:"cleanup"`
	Toolchain   Toolchain   `koanf:"toolchain"`
	Output      Output      `koanf:"output"`
	Diagnostics Diagnostics `koanf:"diagnostics"`
	Steps       Steps       `koanf:"steps"`

	// raw is the merged koanf map the struct was decoded from
	raw map[string]interface{}
	// file is the project config file that was loaded, if any
	file string
}

// Project locates the project being set up.
type Project struct {
	Root      string `koanf:"root"`
	SourceDir string `koanf:"source_dir"`
}

// Build holds the build directory layout and CMake settings.
type Build struct {
	Dir             string `koanf:"dir"`
	Type            string `koanf:"type"`
	Generator       string `koanf:"generator"`
	ToolchainFile   string `koanf:"toolchain_file"`
	CompileCommands string `koanf:"compile_commands"`
}

// Conan holds extra arguments appended to conan install.
type Conan struct {
	ExtraArgs []string `koanf:"extra_args"`
}

// Tool is a required external program.
type Tool struct {
	Name    string   `koanf:"name"`
	Command []string `koanf:"command"`
	Hint    string   `koanf:"hint"`
}

// Cleanup controls the workspace cleaner.
type Cleanup struct {
	Processes  []string      `koanf:"processes"`
	Wait       time.Duration `koanf:"wait"`
	CachePaths []string      `koanf:"cache_paths"`
}

// Toolchain controls MSVC discovery. Only used on Windows.
type Toolchain struct {
	Root         string   `koanf:"root"`
	Versions     []string `koanf:"versions"`
	Editions     []string `koanf:"editions"`
	Arch         string   `koanf:"arch"`
	EnvAllow     []string `koanf:"env_allow"`
	VersionOrder string   `koanf:"version_order"`
}

// Output controls how progress is rendered.
type Output struct {
	Format           string `koanf:"format"`
	FallbackEncoding string `koanf:"fallback_encoding"`
}

// Rule is a user-supplied configure-failure diagnosis.
type Rule struct {
	Name  string   `koanf:"name"`
	Match []string `koanf:"match"`
	Hint  []string `koanf:"hint"`
}

// Diagnostics holds extra diagnosis rules, tried after the built-in ones.
type Diagnostics struct {
	Rules []Rule `koanf:"rules"`
}

// Steps enables the optional steps after configuration.
type Steps struct {
	Build  bool `koanf:"build"`
	VSCode bool `koanf:"vscode"`
}

// File returns the project config file that was loaded, or "".
func (c *Config) File() string {
	return c.file
}

// RootDir returns the project root.
func (c *Config) RootDir() string {
	if c.Project.Root == "" {
		return "."
	}
	return c.Project.Root
}

// SourceDir returns the source directory resolved against the root.
func (c *Config) SourceDir() string {
	return c.resolve(c.RootDir(), c.Project.SourceDir)
}

// BuildDir returns the build directory resolved against the root.
func (c *Config) BuildDir() string {
	return c.resolve(c.RootDir(), c.Build.Dir)
}

// ToolchainFile returns the Conan toolchain path resolved against the
// build directory.
func (c *Config) ToolchainFile() string {
	return c.resolve(c.BuildDir(), c.Build.ToolchainFile)
}

// CompileCommandsPath returns the compilation database inside the build
// directory.
func (c *Config) CompileCommandsPath() string {
	return c.resolve(c.BuildDir(), c.Build.CompileCommands)
}

func (c *Config) resolve(base, p string) string {
	if p == "" {
		return base
	}
	if filepath.IsAbs(p) || base == "." {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
