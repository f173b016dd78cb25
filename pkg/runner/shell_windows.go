//go:build windows

package runner

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// shellCommand runs line through cmd.exe. The command line is passed
// verbatim so quoted paths such as "C:\Program Files\...\vcvarsall.bat"
// survive.
func shellCommand(ctx context.Context, line string) *exec.Cmd {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	c := exec.CommandContext(ctx, comspec)
	c.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: syscall.EscapeArg(comspec) + ` /s /c "` + line + `"`,
	}
	return c
}
