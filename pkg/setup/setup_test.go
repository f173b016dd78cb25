package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/devsetup/pkg/config"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/filesystem"
	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/testutil"
	"github.com/arthur-debert/devsetup/pkg/ui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	root          = filepath.Join(string(filepath.Separator), "proj")
	buildDir      = filepath.Join(root, "build")
	toolchainFile = filepath.Join(buildDir, "conan_toolchain.cmake")
)

type harness struct {
	fs    *testutil.FailingFs
	fake  *testutil.FakeRunner
	term  *testutil.FakeTerminator
	out   *bytes.Buffer
	setup *Setup
}

func newHarness(t *testing.T, platform string, overrides map[string]interface{}) *harness {
	t.Helper()
	o := map[string]interface{}{"cleanup.wait": "0s"}
	for k, v := range overrides {
		o[k] = v
	}
	cfg, err := config.Load(config.LoadOptions{Root: root, Overrides: o})
	require.NoError(t, err)

	h := &harness{
		fs:   testutil.NewFailingFs(afero.NewMemMapFs()),
		fake: testutil.NewFakeRunner(),
		term: &testutil.FakeTerminator{},
		out:  &bytes.Buffer{},
	}
	require.NoError(t, h.fs.MkdirAll(root, 0755))

	// conan writes the toolchain file into the build directory
	h.fake.Hook("conan install", func(runner.Command) {
		require.NoError(t, testutil.WriteFiles(h.fs, map[string]string{toolchainFile: "# conan"}))
	})

	h.setup = New(cfg, Options{
		Runner:     h.fake,
		FS:         h.fs,
		Terminator: h.term,
		Reporter:   ui.NewReporter(h.out, ui.FormatText),
		Platform:   platform,
		Arch:       "amd64",
	})
	return h
}

func (h *harness) commands() []string {
	var out []string
	for _, c := range h.fake.Calls {
		out = append(out, c.String())
	}
	return out
}

func TestRunEndToEnd(t *testing.T) {
	h := newHarness(t, "linux", nil)

	err := h.setup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))

	assert.Equal(t, []string{
		"conan --version",
		"cmake --version",
		"ninja --version",
		"conan install " + root + " --output-folder=" + buildDir + " --build=missing -s build_type=Debug",
		"cmake -B " + buildDir + " -S " + root + " -G Ninja -DCMAKE_BUILD_TYPE=Debug -DCMAKE_EXPORT_COMPILE_COMMANDS=ON -DCMAKE_TOOLCHAIN_FILE=" + filepath.ToSlash(toolchainFile),
	}, h.commands())
	assert.False(t, h.term.Called(), "nothing to clean")

	out := h.out.String()
	for _, want := range []string{
		"Step 0: Check required tools",
		"Step 1: Check and clean the build directory",
		"Step 2: Install Conan dependencies",
		"Step 3: Set up the compiler environment",
		"Step 4: Configure the CMake project",
		"✅ Conan dependencies installed",
		"✅ CMake configuration succeeded",
		"=== Setup complete ===",
		"🎉 You can now enjoy:",
		"   - Build the project: cmake --build build",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Step 5")
	assert.NotContains(t, out, "Step 7")
}

func TestRunStopsOnMissingTool(t *testing.T) {
	h := newHarness(t, "linux", nil)
	h.fake.Missing("ninja")

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolMissing))
	assert.Equal(t, 1, ExitCode(err))

	assert.Empty(t, h.fake.CallsTo("conan install"))
	assert.Empty(t, h.fake.CallsTo("cmake -B"))
	assert.Contains(t, h.out.String(), "❌ Required tools are missing")
	assert.NotContains(t, h.out.String(), "Step 1")
}

func TestRunCleansExistingBuildDirectory(t *testing.T) {
	h := newHarness(t, "linux", nil)
	require.NoError(t, testutil.WriteFiles(h.fs, map[string]string{
		filepath.Join(buildDir, "CMakeCache.txt"): "stale",
	}))

	require.NoError(t, h.setup.Run(context.Background()))
	assert.True(t, h.term.Called())
	assert.False(t, filesystem.Exists(h.fs, filepath.Join(buildDir, "CMakeCache.txt")))
}

func TestRunStopsOnLockedBuildDirectory(t *testing.T) {
	h := newHarness(t, "linux", nil)
	require.NoError(t, h.fs.MkdirAll(buildDir, 0755))
	h.fs.DenyRemoveAll(buildDir, os.ErrPermission)

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrCleanupDenied))
	assert.Empty(t, h.fake.CallsTo("conan install"))
}

func TestRunStopsOnConanFailure(t *testing.T) {
	h := newHarness(t, "linux", nil)
	h.fake.Fail("conan install", 1, "ERROR: The default build profile doesn't exist")

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyInstallFailed))
	assert.Empty(t, h.fake.CallsTo("cmake -B"))

	out := h.out.String()
	assert.Contains(t, out, "❌ Conan install failed")
	assert.Contains(t, out, "Possible causes:")
	assert.Contains(t, out, "4. Permission problems")
}

func TestRunStopsOnConfigureFailure(t *testing.T) {
	h := newHarness(t, "linux", nil)
	h.fake.Fail("cmake -B", 1, "CMake Error: Could not create named generator Ninja")

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigurationFailed))
	assert.Contains(t, h.out.String(), "1. Make sure Ninja is installed and on PATH")
	assert.NotContains(t, h.out.String(), "Setup complete")
}

func TestRunToolchainFileMissing(t *testing.T) {
	h := newHarness(t, "linux", nil)
	h.fake.Hook("conan install", func(runner.Command) {})

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainMissing))
	assert.Empty(t, h.fake.CallsTo("cmake -B"))
}

func TestRunWindowsPassesExplicitCompiler(t *testing.T) {
	vs := filepath.Join(string(filepath.Separator), "vs")
	h := newHarness(t, "windows", map[string]interface{}{"toolchain.root": vs})

	edition := filepath.Join(vs, "2022", "Community")
	vcvars := filepath.Join(edition, "VC", "Auxiliary", "Build", "vcvarsall.bat")
	cl := filepath.Join(edition, "VC", "Tools", "MSVC", "14.38.33130", "bin", "Hostx64", "x64", "cl.exe")
	require.NoError(t, testutil.WriteFiles(h.fs, map[string]string{vcvars: "", cl: ""}))

	h.fake.On(vcvars, &runner.Result{Stdout: "PATH=C:\\VS\\bin\nFOO=bar\n", Decoded: true}, nil)
	h.fake.Missing("cl")

	require.NoError(t, h.setup.Run(context.Background()))

	configure := h.fake.CallsTo("cmake -B")
	require.Len(t, configure, 1)
	assert.Contains(t, configure[0].Args, "-DCMAKE_C_COMPILER="+cl)
	assert.Contains(t, configure[0].Args, "-DCMAKE_CXX_COMPILER="+cl)
	assert.Equal(t, "C:\\VS\\bin", configure[0].Env["PATH"])
	_, hasFoo := configure[0].Env["FOO"]
	assert.False(t, hasFoo)

	out := h.out.String()
	assert.Contains(t, out, "✅ Found Visual Studio 2022 Community")
	assert.Contains(t, out, "Using MSVC compiler explicitly")
}

func TestRunWindowsSkipsExplicitCompilerWhenClRuns(t *testing.T) {
	vs := filepath.Join(string(filepath.Separator), "vs")
	h := newHarness(t, "windows", map[string]interface{}{"toolchain.root": vs})

	edition := filepath.Join(vs, "2022", "Community")
	vcvars := filepath.Join(edition, "VC", "Auxiliary", "Build", "vcvarsall.bat")
	cl := filepath.Join(edition, "VC", "Tools", "MSVC", "14.38", "bin", "Hostx64", "x64", "cl.exe")
	require.NoError(t, testutil.WriteFiles(h.fs, map[string]string{vcvars: "", cl: ""}))

	// vcvarsall fails, but cl is already on PATH (developer prompt)
	h.fake.Fail(vcvars, 1, "")

	require.NoError(t, h.setup.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Cannot set up the MSVC environment")
	assert.Len(t, h.fake.CallsTo("cl"), 1)

	configure := h.fake.CallsTo("cmake -B")
	require.Len(t, configure, 1)
	assert.NotContains(t, configure[0].String(), "CMAKE_C_COMPILER")
	assert.NotContains(t, configure[0].String(), "CMAKE_CXX_COMPILER")
}

func TestRunWindowsWithoutVisualStudio(t *testing.T) {
	h := newHarness(t, "windows", map[string]interface{}{"toolchain.root": "/nowhere"})

	require.NoError(t, h.setup.Run(context.Background()))
	assert.Contains(t, h.out.String(), "⚠️  Visual Studio not found")
	assert.NotContains(t, h.fake.CallsTo("cmake -B")[0].String(), "CMAKE_C_COMPILER")
}

func TestRunOptionalSteps(t *testing.T) {
	h := newHarness(t, "linux", map[string]interface{}{"steps.build": true, "steps.vscode": true})
	h.fake.Hook("cmake --build", func(runner.Command) {
		require.NoError(t, testutil.WriteFiles(h.fs, map[string]string{
			filepath.Join(buildDir, "compile_commands.json"): `[{"directory":"/proj/build","command":"c++ -c a.cpp","file":"a.cpp"}]`,
		}))
	})

	require.NoError(t, h.setup.Run(context.Background()))

	assert.Len(t, h.fake.CallsTo("cmake --build"), 1)
	assert.True(t, filesystem.IsFile(h.fs, filepath.Join(root, "compile_commands.json")))

	out := h.out.String()
	assert.Contains(t, out, "Step 5: Build the project")
	assert.Contains(t, out, "Step 6: Check generated files")
	assert.Contains(t, out, "Compile entries: 1")
	assert.Contains(t, out, "Step 7: Check VS Code configuration")
	assert.Contains(t, out, "VS Code configuration file does not exist")
	assert.Contains(t, out, "Setup complete")
}

func TestRunMissingCompilationDatabaseFails(t *testing.T) {
	h := newHarness(t, "linux", map[string]interface{}{"steps.build": true})
	h.fake.Fail("cmake --build", 1, "ninja: build stopped")

	err := h.setup.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrCompDBMissing))

	out := h.out.String()
	assert.Contains(t, out, "⚠️  Build did not finish cleanly")
	assert.Contains(t, out, "Problems occurred during setup")
	assert.NotContains(t, out, "You can now enjoy")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New(errors.ErrInternal, "boom")))
}
