//go:build !windows

package procs

import "github.com/arthur-debert/devsetup/pkg/runner"

func killCommand(name string) runner.Command {
	return runner.Command{Name: "pkill", Args: []string{"-x", name}}
}
