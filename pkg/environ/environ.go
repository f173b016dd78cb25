// Package environ models the environment variables handed to subprocesses.
//
// Values discovered while probing the machine (for example the MSVC
// variables produced by vcvarsall.bat) are collected into an Env and passed
// explicitly to each command. The process environment itself is never
// modified.
package environ

import (
	"runtime"
	"sort"
	"strings"
)

// Env maps variable names to values.
type Env map[string]string

// foldKeys reports whether variable names compare case-insensitively.
var foldKeys = runtime.GOOS == "windows"

// Set stores value under key. Any existing entry whose name matches key
// (case-insensitively on Windows) is replaced.
func (e Env) Set(key, value string) {
	if foldKeys {
		for k := range e {
			if k != key && strings.EqualFold(k, key) {
				delete(e, k)
			}
		}
	}
	e[key] = value
}

// Merge copies every entry of other into e, overwriting existing values.
func (e Env) Merge(other Env) Env {
	for k, v := range other {
		e.Set(k, v)
	}
	return e
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environ overlays e on base (KEY=VALUE entries, as from os.Environ) and
// returns the result sorted by name.
func (e Env) Environ(base []string) []string {
	merged := make(Env, len(base)+len(e))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			merged[k] = v
		}
	}
	merged.Merge(e)

	out := make([]string, 0, len(merged))
	for _, k := range merged.Keys() {
		out = append(out, k+"="+merged[k])
	}
	return out
}

// ParseDump parses the output of an environment dump ("set" on Windows,
// "env" elsewhere) and keeps only the variables named in allow.
//
// Each line is split on its first '='. Lines without '=' or starting with
// '=' (cmd.exe's per-drive "=C:=C:\" entries) are skipped. Names are matched
// against allow case-insensitively and stored under the allow-list spelling.
func ParseDump(dump string, allow []string) Env {
	canonical := make(map[string]string, len(allow))
	for _, name := range allow {
		canonical[strings.ToUpper(name)] = name
	}

	env := Env{}
	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, "=") || strings.HasPrefix(line, "=") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		name, ok := canonical[strings.ToUpper(key)]
		if !ok {
			continue
		}
		env[name] = value
	}
	return env
}
