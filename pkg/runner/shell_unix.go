//go:build !windows

package runner

import (
	"context"
	"os/exec"
)

// shellCommand runs line through sh.
func shellCommand(ctx context.Context, line string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", line)
}
