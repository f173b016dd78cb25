package toolchain

import (
	"bytes"
	"context"
	"testing"

	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/testutil"
	"github.com/arthur-debert/devsetup/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareWithoutInstallation(t *testing.T) {
	loc, _ := newLocator(t)
	var out bytes.Buffer
	fake := testutil.NewFakeRunner()

	p := loc.Prepare(context.Background(), fake, ui.NewReporter(&out, ui.FormatText))

	assert.Nil(t, p.Installation)
	assert.NotNil(t, p.Env)
	assert.Empty(t, p.Env)
	assert.False(t, p.CompilerReady)
	assert.Empty(t, fake.Calls)
	assert.Contains(t, out.String(), "Visual Studio not found")
}

func TestPrepareLoadsEnvironment(t *testing.T) {
	loc, _ := newLocator(t, vcvars("2022", "Community"))
	var out bytes.Buffer
	fake := testutil.NewFakeRunner().
		On(vcvars("2022", "Community"), &runner.Result{Stdout: "PATH=C:\\VS\\bin\nLIB=C:\\VS\\lib\n", Decoded: true}, nil)

	p := loc.Prepare(context.Background(), fake, ui.NewReporter(&out, ui.FormatText))

	require.NotNil(t, p.Installation)
	assert.Equal(t, "2022", p.Installation.Version)
	assert.Equal(t, "C:\\VS\\bin", p.Env["PATH"])
	assert.True(t, p.CompilerReady)

	clCalls := fake.CallsTo("cl")
	require.Len(t, clCalls, 1)
	assert.Equal(t, p.Env, clCalls[0].Env, "cl is probed with the loaded environment")

	assert.Contains(t, out.String(), "✅ Found Visual Studio 2022 Community")
	assert.Contains(t, out.String(), "✅ MSVC compiler environment is set")
}

func TestPrepareCompilerStillMissing(t *testing.T) {
	loc, _ := newLocator(t, vcvars("2019", "Professional"))
	var out bytes.Buffer
	fake := testutil.NewFakeRunner().Missing("cl")

	p := loc.Prepare(context.Background(), fake, ui.NewReporter(&out, ui.FormatText))

	require.NotNil(t, p.Installation)
	assert.False(t, p.CompilerReady)
	assert.Contains(t, out.String(), "MSVC compiler still unavailable")
}

func TestPrepareEnvironmentFailureIsAWarning(t *testing.T) {
	loc, _ := newLocator(t, vcvars("2022", "Community"))
	var out bytes.Buffer
	fake := testutil.NewFakeRunner().Fail(vcvars("2022", "Community"), 1, "")

	p := loc.Prepare(context.Background(), fake, ui.NewReporter(&out, ui.FormatText))

	require.NotNil(t, p.Installation)
	assert.Empty(t, p.Env)
	assert.False(t, p.CompilerReady)
	assert.False(t, fake.Invoked("cl"))
	assert.Contains(t, out.String(), "⚠️  Cannot set up the MSVC environment")
}
