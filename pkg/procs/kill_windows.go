//go:build windows

package procs

import (
	"strings"

	"github.com/arthur-debert/devsetup/pkg/runner"
)

func killCommand(name string) runner.Command {
	image := name
	if !strings.HasSuffix(strings.ToLower(image), ".exe") {
		image += ".exe"
	}
	return runner.Command{Name: "taskkill", Args: []string{"/f", "/im", image}}
}
