package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/devsetup/pkg/runner"
	"github.com/arthur-debert/devsetup/pkg/ui/styles"
)

// Reporter prints human-readable progress for the setup flow.
//
// Styling is applied only for FormatTerminal. FormatText output is plain
// and deterministic, which is what tests and pipes get.
type Reporter struct {
	w      io.Writer
	format Format
}

var _ runner.Echo = (*Reporter)(nil)

// NewReporter creates a Reporter writing to w. FormatAuto is resolved
// against w when it is a file and falls back to FormatText otherwise.
func NewReporter(w io.Writer, format Format) *Reporter {
	if format == FormatAuto {
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		} else {
			format = FormatText
		}
	}
	return &Reporter{w: w, format: format}
}

// Format returns the resolved output format.
func (r *Reporter) Format() Format {
	return r.format
}

func (r *Reporter) render(style, text string) string {
	if r.format != FormatTerminal {
		return text
	}
	return styles.GetStyle(style).Render(text)
}

func (r *Reporter) println(style, text string) {
	_, _ = fmt.Fprintln(r.w, r.render(style, text))
}

// Banner prints the program header.
func (r *Reporter) Banner(title string, subtitles ...string) {
	_, _ = fmt.Fprintln(r.w)
	r.println("Header", "=== "+title+" ===")
	for _, s := range subtitles {
		r.println("SubHeader", s)
	}
	_, _ = fmt.Fprintln(r.w)
}

// Step prints a numbered step heading.
func (r *Reporter) Step(n int, title string) {
	_, _ = fmt.Fprintln(r.w)
	r.println("Step", fmt.Sprintf("Step %d: %s", n, title))
}

func (r *Reporter) Success(msg string) { r.println("Success", "✅ "+msg) }
func (r *Reporter) Error(msg string)   { r.println("Error", "❌ "+msg) }
func (r *Reporter) Warning(msg string) { r.println("Warning", "⚠️  "+msg) }
func (r *Reporter) Info(msg string)    { r.println("Info", "ℹ️  "+msg) }

// Successf, Errorf, Warningf and Infof format before printing.
func (r *Reporter) Successf(format string, args ...interface{}) {
	r.Success(fmt.Sprintf(format, args...))
}
func (r *Reporter) Errorf(format string, args ...interface{}) { r.Error(fmt.Sprintf(format, args...)) }
func (r *Reporter) Warningf(format string, args ...interface{}) {
	r.Warning(fmt.Sprintf(format, args...))
}
func (r *Reporter) Infof(format string, args ...interface{}) { r.Info(fmt.Sprintf(format, args...)) }

// Plain prints text without decoration.
func (r *Reporter) Plain(text string) {
	_, _ = fmt.Fprintln(r.w, text)
}

// Numbered prints a heading followed by a 1-based numbered list.
func (r *Reporter) Numbered(heading string, items ...string) {
	if heading != "" {
		_, _ = fmt.Fprintln(r.w)
		r.Plain(heading)
	}
	for i, item := range items {
		r.Plain(fmt.Sprintf("%d. %s", i+1, item))
	}
}

// Bullets prints an indented bullet list under an optional styled heading.
func (r *Reporter) Bullets(style, heading string, items ...string) {
	if heading != "" {
		r.println(style, heading)
	}
	for _, item := range items {
		r.Plain("   - " + item)
	}
}

// Rule prints a bold separator line around a title.
func (r *Reporter) Rule(title string) {
	line := strings.Repeat("=", 40)
	_, _ = fmt.Fprintln(r.w)
	r.println("Bold", line)
	r.println("Bold", "=== "+title+" ===")
	r.println("Bold", line)
	_, _ = fmt.Fprintln(r.w)
}

// Command echoes a command about to run.
func (r *Reporter) Command(line string) {
	r.println("Command", "[exec] "+line)
}

// Output echoes captured command output.
func (r *Reporter) Output(text string) {
	r.println("Output", text)
}

// CommandFailed reports a checked command that exited non-zero.
func (r *Reporter) CommandFailed(line, stderr string) {
	r.Error("Command failed: " + line)
	if stderr != "" {
		r.println("Stderr", stderr)
	}
}
