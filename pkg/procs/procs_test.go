package procs

import (
	"context"
	"runtime"
	"testing"

	"github.com/arthur-debert/devsetup/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func killTool() string {
	if runtime.GOOS == "windows" {
		return "taskkill"
	}
	return "pkill"
}

func TestTerminateIssuesOneRequestPerName(t *testing.T) {
	fake := testutil.NewFakeRunner()
	term := New(fake)

	term.Terminate(context.Background(), []string{"cmake", "ninja"})

	calls := fake.CallsTo(killTool())
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.True(t, c.Quiet, "termination requests are not echoed")
	}
	if runtime.GOOS == "windows" {
		assert.Equal(t, []string{"/f", "/im", "cmake.exe"}, calls[0].Args)
	} else {
		assert.Equal(t, []string{"-x", "cmake"}, calls[0].Args)
	}
}

func TestTerminateIgnoresFailures(t *testing.T) {
	fake := testutil.NewFakeRunner().Missing(killTool())
	term := New(fake)

	assert.NotPanics(t, func() {
		term.Terminate(context.Background(), []string{"cl", "link", "conan"})
	})
	assert.Len(t, fake.Calls, 3)
}
