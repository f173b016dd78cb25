package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/runner"
)

// Response is a canned outcome for a command.
type Response struct {
	Result *runner.Result
	Err    error
}

// FakeRunner implements runner.Runner without starting processes.
//
// Responses are keyed by the command name, or by the first (possibly quoted)
// word of Line for shell commands. A key of "name arg" matches only calls
// whose first argument is arg and wins over a plain "name" key. Unknown
// commands succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	Calls     []runner.Command
	responses map[string]Response
	hooks     map[string]func(runner.Command)
}

var _ runner.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: map[string]Response{},
		hooks:     map[string]func(runner.Command){},
	}
}

// Hook runs fn whenever a command named name runs, before its result is
// returned. Tests use it to fake the files a tool would write.
func (f *FakeRunner) Hook(name string, fn func(runner.Command)) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[name] = fn
	return f
}

// On registers the result returned for commands named name.
func (f *FakeRunner) On(name string, result *runner.Result, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[name] = Response{Result: result, Err: err}
	return f
}

// Fail makes commands named name exit with code and stderr.
func (f *FakeRunner) Fail(name string, code int, stderr string) *FakeRunner {
	return f.On(name, &runner.Result{ExitCode: code, Stderr: stderr, Decoded: true}, nil)
}

// Missing makes commands named name fail to start.
func (f *FakeRunner) Missing(name string) *FakeRunner {
	return f.On(name, nil, errors.Newf(errors.ErrCommandStart, "cannot start %s", name))
}

// Run records cmd and returns the registered response.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	var (
		resp Response
		ok   bool
		hook func(runner.Command)
	)
	for _, k := range keys(cmd) {
		if !ok {
			resp, ok = f.responses[k]
		}
		if hook == nil {
			hook = f.hooks[k]
		}
	}
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	if !ok {
		return &runner.Result{Decoded: true}, nil
	}
	if resp.Err != nil || resp.Result == nil {
		return resp.Result, resp.Err
	}
	res := *resp.Result
	if cmd.Check && res.ExitCode != 0 {
		return &res, errors.Newf(errors.ErrCommandFailed, "%s exited with code %d", cmd.String(), res.ExitCode)
	}
	return &res, nil
}

// Invoked reports whether any command named name ran.
func (f *FakeRunner) Invoked(name string) bool {
	return len(f.CallsTo(name)) > 0
}

// CallsTo returns the recorded commands named name.
func (f *FakeRunner) CallsTo(name string) []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []runner.Command
	for _, c := range f.Calls {
		for _, k := range keys(c) {
			if k == name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// keys returns the lookup keys of cmd, most specific first.
func keys(cmd runner.Command) []string {
	k := key(cmd)
	if cmd.Line == "" && len(cmd.Args) > 0 {
		return []string{k + " " + cmd.Args[0], k}
	}
	return []string{k}
}

func key(cmd runner.Command) string {
	if cmd.Line != "" {
		line := strings.TrimSpace(cmd.Line)
		if strings.HasPrefix(line, `"`) {
			if end := strings.Index(line[1:], `"`); end >= 0 {
				return line[1 : end+1]
			}
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return ""
		}
		return strings.Trim(fields[0], `"`)
	}
	return cmd.Name
}
