package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/devsetup/pkg/environ"
	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Command describes one subprocess invocation.
type Command struct {
	// Name and Args form the argv. Ignored when Line is set.
	Name string
	Args []string

	// Line is a command line run through the platform shell
	// (cmd.exe on Windows, sh elsewhere).
	Line string

	Dir string

	// Env is overlaid on the current process environment.
	Env environ.Env

	// Check turns a non-zero exit status into an ErrCommandFailed error.
	Check bool

	// Quiet suppresses echoing of the command line and its output.
	Quiet bool
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	if c.Line != "" {
		return c.Line
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Result is the outcome of a command that started.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Decoded is false when the captured output could not be decoded and
	// Stdout/Stderr were dropped.
	Decoded bool
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner runs commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Echo receives user-facing progress from a Runner.
type Echo interface {
	Command(line string)
	Output(text string)
	CommandFailed(line, stderr string)
	Warning(msg string)
}

// NopEcho discards everything.
type NopEcho struct{}

func (NopEcho) Command(string)               {}
func (NopEcho) Output(string)                {}
func (NopEcho) CommandFailed(string, string) {}
func (NopEcho) Warning(string)               {}

// Options configures an ExecRunner.
type Options struct {
	Echo Echo

	// FallbackEncoding is an IANA charset name used when output is not
	// valid UTF-8. Empty disables the fallback.
	FallbackEncoding string

	// Logger defaults to the "runner" component logger.
	Logger *zerolog.Logger
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	echo     Echo
	fallback encoding.Encoding
	logger   zerolog.Logger
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates an ExecRunner. It fails if FallbackEncoding names an
// unknown charset.
func NewExecRunner(opts Options) (*ExecRunner, error) {
	echo := opts.Echo
	if echo == nil {
		echo = NopEcho{}
	}

	logger := logging.GetLogger("runner")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	r := &ExecRunner{echo: echo, logger: logger}
	if opts.FallbackEncoding != "" {
		enc, err := ianaindex.IANA.Encoding(opts.FallbackEncoding)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "unknown fallback encoding %q", opts.FallbackEncoding)
		}
		if enc == nil {
			return nil, errors.Newf(errors.ErrInvalidInput, "unsupported fallback encoding %q", opts.FallbackEncoding)
		}
		r.fallback = enc
	}
	return r, nil
}

// Run executes cmd and waits for it. A nil Result is returned only when the
// process could not be started or the context was cancelled.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	line := cmd.String()
	logging.LogCommand(cmd.Name, cmd.Args)
	if !cmd.Quiet {
		r.echo.Command(line)
	}

	c := r.build(ctx, cmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Wrapf(ctxErr, errors.ErrInterrupted, "%s interrupted", line)
	}

	result := &Result{Decoded: true}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			r.logger.Debug().Err(err).Str("command", line).Msg("Command failed to start")
			return nil, errors.Wrapf(err, errors.ErrCommandStart, "cannot start %s", line)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	outText, outErr := r.decode(stdout.Bytes())
	errText, errErr := r.decode(stderr.Bytes())
	if outErr != nil || errErr != nil {
		result.Decoded = false
		r.echo.Warning("cannot decode output of " + line)
		r.logger.Warn().Str("command", line).Msg("Output is not decodable, dropping captured text")
	} else {
		result.Stdout = outText
		result.Stderr = errText
	}

	if !cmd.Quiet {
		if out := strings.TrimSpace(result.Stdout); out != "" {
			r.echo.Output(out)
		}
	}

	r.logger.Debug().
		Str("command", line).
		Int("exit_code", result.ExitCode).
		Msg("Command finished")

	if cmd.Check && result.ExitCode != 0 {
		r.echo.CommandFailed(line, strings.TrimSpace(result.Stderr))
		return result, errors.Newf(errors.ErrCommandFailed, "%s exited with code %d", line, result.ExitCode).
			WithDetail("exit_code", result.ExitCode)
	}
	return result, nil
}

func (r *ExecRunner) build(ctx context.Context, cmd Command) *exec.Cmd {
	var c *exec.Cmd
	if cmd.Line != "" {
		c = shellCommand(ctx, cmd.Line)
	} else {
		c = exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	}
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = cmd.Env.Environ(os.Environ())
	}
	return c
}

// decode returns b as text, retrying with the fallback encoding when b is
// not valid UTF-8.
func (r *ExecRunner) decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if r.fallback == nil {
		return "", errors.New(errors.ErrEncoding, "output is not valid UTF-8")
	}
	out, err := r.fallback.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrEncoding, "fallback decoding failed")
	}
	return string(out), nil
}
