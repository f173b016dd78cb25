package devsetup

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/testutil"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// useFakeRunner makes every command created during the test run through fake.
func useFakeRunner(t *testing.T, fake *testutil.FakeRunner) {
	t.Helper()
	orig := newRunner
	newRunner = func(runner.Options) (runner.Runner, error) { return fake, nil }
	t.Cleanup(func() { newRunner = orig })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConfigCmd_Defaults(t *testing.T) {
	root := t.TempDir()

	out, err := execute(t, "config", "--root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "Ninja")
	assert.Contains(t, out, "Debug")
	assert.NotContains(t, out, "# loaded from")
}

func TestConfigCmd_FlagsOverrideProjectFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".devsetup.toml"), "[build]\ntype = \"RelWithDebInfo\"\ndir = \"out\"\n")

	out, err := execute(t, "config", "--root", root, "--build-type", "Release")
	require.NoError(t, err)

	assert.Contains(t, out, "# loaded from")
	assert.Contains(t, out, "Release")
	assert.NotContains(t, out, "RelWithDebInfo")
	assert.Contains(t, out, "out")
}

func TestConfigCmd_Environment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("DEVSETUP_BUILD_GENERATOR", "Unix Makefiles")

	out, err := execute(t, "config", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Unix Makefiles")
}

func TestConfigCmd_MissingExplicitFile(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "config", "--root", root, "--config", filepath.Join(root, "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCheckCmd_MissingTool(t *testing.T) {
	fake := testutil.NewFakeRunner().Missing("ninja")
	useFakeRunner(t, fake)

	out, err := execute(t, "check", "--root", t.TempDir(), "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolMissing))

	assert.Contains(t, out, "Conan available")
	assert.Contains(t, out, "CMake available")
	assert.Contains(t, out, "Ninja not available")
	assert.True(t, fake.Invoked("conan"))
}

func TestRunCmd_FullFlow(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	t.Setenv("DEVSETUP_CLEANUP_WAIT", "0s")

	fake := testutil.NewFakeRunner()
	fake.Hook("conan install", func(runner.Command) {
		writeFile(t, filepath.Join(buildDir, "conan_toolchain.cmake"), "# conan")
	})
	useFakeRunner(t, fake)

	out, err := execute(t, "run", "--root", root, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Step 0: Check required tools")
	assert.Contains(t, out, "Conan dependencies installed")
	assert.Contains(t, out, "CMake configuration succeeded")
	assert.Contains(t, out, "Setup complete")

	configure := fake.CallsTo("cmake -B")
	require.Len(t, configure, 1)
	assert.Contains(t, configure[0].Args, "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON")
	assert.False(t, fake.Invoked("cmake --build"))
}

func TestRootCmd_RunsSetupWithoutSubcommand(t *testing.T) {
	root := t.TempDir()
	fake := testutil.NewFakeRunner().Fail("conan install", 1, "ERROR: missing recipe")
	useFakeRunner(t, fake)

	out, err := execute(t, "--root", root, "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyInstallFailed))
	assert.Contains(t, out, "Conan install failed")
	assert.False(t, fake.Invoked("cmake -B"))
}

func TestCompDBCmd_CopiesToRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out", "compile_commands.json"),
		`[{"directory": "/p", "command": "cl /c a.cpp", "file": "a.cpp"}]`)

	out, err := execute(t, "compdb", "--root", root, "--build-dir", "out", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Compile entries: 1")
	assert.FileExists(t, filepath.Join(root, "compile_commands.json"))
}

func TestCompDBCmd_Missing(t *testing.T) {
	_, err := execute(t, "compdb", "--root", t.TempDir(), "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCompDBMissing))
}

func TestVSCodeCmd_NeverFails(t *testing.T) {
	out, err := execute(t, "vscode", "--root", t.TempDir(), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "VS Code configuration file does not exist")
}

func TestToolchainCmd_FindsInstallation(t *testing.T) {
	vs := t.TempDir()
	edition := filepath.Join(vs, "2022", "Community")
	writeFile(t, filepath.Join(edition, "VC", "Auxiliary", "Build", "vcvarsall.bat"), "@echo off")
	cl := filepath.Join(edition, "VC", "Tools", "MSVC", "14.38.33130", "bin", "Hostx64", "x64", "cl.exe")
	writeFile(t, cl, "")
	t.Setenv("DEVSETUP_TOOLCHAIN_ROOT", vs)

	out, err := execute(t, "toolchain", "--root", t.TempDir(), "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Found Visual Studio 2022 Community")
	assert.Contains(t, out, cl)
}

func TestToolchainCmd_NothingInstalled(t *testing.T) {
	t.Setenv("DEVSETUP_TOOLCHAIN_ROOT", t.TempDir())

	out, err := execute(t, "toolchain", "--root", t.TempDir(), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No Visual Studio installation found")
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "vscode", "--root", t.TempDir(), "--format", "html")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "devsetup dev")
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestGuideCmd(t *testing.T) {
	out, err := execute(t, "guide", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "devsetup guide")
	assert.Contains(t, out, "compile_commands.json")
}

func TestHelpUsesGroups(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "STEPS:")
	assert.Contains(t, out, "clean")
}

func TestHandleError(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Equal(t, 0, HandleError(ctx, &buf, nil))
		assert.Empty(t, buf.String())
	})

	t.Run("already_reported", func(t *testing.T) {
		var buf bytes.Buffer
		err := reported(errors.New(errors.ErrToolMissing, "ninja"))
		assert.Equal(t, 1, HandleError(ctx, &buf, err))
		assert.Empty(t, buf.String())
	})

	t.Run("interrupted", func(t *testing.T) {
		var buf bytes.Buffer
		err := reported(errors.New(errors.ErrInterrupted, "conan interrupted"))
		assert.Equal(t, 1, HandleError(ctx, &buf, err))
		assert.Contains(t, buf.String(), "Interrupted by user")
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		var buf bytes.Buffer
		assert.Equal(t, 1, HandleError(cctx, &buf, cctx.Err()))
		assert.Contains(t, buf.String(), "Interrupted by user")
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Equal(t, 1, HandleError(ctx, &buf, stderrors.New("boom")))
		assert.Contains(t, buf.String(), "Error: boom")
	})
}
