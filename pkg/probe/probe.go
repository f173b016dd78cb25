// Package probe checks that the external tools devsetup drives are
// installed.
package probe

import (
	"context"
	"strings"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Tool describes a required program.
type Tool struct {
	Name    string
	Command []string
	Hint    string
}

// Status is the outcome of checking one Tool.
type Status struct {
	Tool      Tool
	Available bool
	// Version is the first line the version command printed.
	Version string
}

// Reporter receives per-tool results.
type Reporter interface {
	Success(msg string)
	Error(msg string)
}

// DefaultTools are the tools required by a Conan + CMake + Ninja project.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "Conan", Command: []string{"conan", "--version"}, Hint: "Install Conan 2: pip install conan"},
		{Name: "CMake", Command: []string{"cmake", "--version"}, Hint: "Install CMake"},
		{Name: "Ninja", Command: []string{"ninja", "--version"}, Hint: "Install the Ninja build system"},
	}
}

// Check runs each tool's version command. Every tool is checked and
// reported; an ErrToolMissing error names the ones that are not available.
func Check(ctx context.Context, r runner.Runner, rep Reporter, tools []Tool) ([]Status, error) {
	logger := logging.GetLogger("probe")
	statuses := make([]Status, 0, len(tools))
	var missing []string

	for _, tool := range tools {
		st := checkOne(ctx, r, tool)
		if err := ctx.Err(); err != nil {
			return statuses, errors.Wrap(err, errors.ErrInterrupted, "tool check interrupted")
		}
		statuses = append(statuses, st)

		if st.Available {
			logger.Info().Str("tool", tool.Name).Str("version", st.Version).Msg("Tool available")
			rep.Success(tool.Name + " available")
			continue
		}
		logger.Warn().Str("tool", tool.Name).Msg("Tool not available")
		rep.Error(tool.Name + " not available")
		if tool.Hint != "" {
			rep.Error(tool.Hint)
		}
		missing = append(missing, tool.Name)
	}

	if len(missing) > 0 {
		return statuses, errors.Newf(errors.ErrToolMissing, "required tools missing: %s", strings.Join(missing, ", ")).
			WithDetail("tools", missing)
	}
	return statuses, nil
}

func checkOne(ctx context.Context, r runner.Runner, tool Tool) Status {
	st := Status{Tool: tool}
	if len(tool.Command) == 0 {
		return st
	}
	res, err := r.Run(ctx, runner.Command{
		Name:  tool.Command[0],
		Args:  tool.Command[1:],
		Quiet: true,
	})
	if err != nil || !res.Success() {
		return st
	}
	st.Available = true
	st.Version = firstLine(res.Stdout)
	return st
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
