// Package runner executes external tools for devsetup.
//
// Every invocation blocks until the child exits. Output is captured, decoded
// (UTF-8 first, then a configurable fallback encoding such as GBK, which is
// what Chinese-locale Windows consoles emit) and echoed through an Echo so
// the user sees each command line as it runs.
//
// Commands receive an explicit environ.Env overlay instead of relying on
// mutations of the process environment.
package runner
