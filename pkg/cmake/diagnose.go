package cmake

import "strings"

// Rule maps a configure failure signature to a hint. A rule matches when
// the lower-cased error text contains every string in All.
type Rule struct {
	Name string
	All  []string
	Hint []string
}

// Matches reports whether text contains all of the rule's patterns,
// ignoring case.
func (r Rule) Matches(text string) bool {
	if len(r.All) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range r.All {
		if !strings.Contains(lower, strings.ToLower(p)) {
			return false
		}
	}
	return true
}

// DefaultRules are tried in order; the first match wins.
var DefaultRules = []Rule{
	{
		Name: "missing-target",
		All:  []string{"does not exist", "target"},
		Hint: []string{
			"Detected a missing target: CMakeLists.txt references a target that does not exist",
			"Suggestion: check install(TARGETS ...) and custom commands in CMakeLists.txt",
		},
	},
	{
		Name: "interface-post-build",
		All:  []string{"interface library", "post_build"},
		Hint: []string{
			"Detected a POST_BUILD command on an INTERFACE library",
			"Suggestion: INTERFACE libraries cannot have POST_BUILD commands",
		},
	},
	{
		Name: "toolchain",
		All:  []string{"toolchain"},
		Hint: []string{
			"Detected a toolchain problem",
			"Suggestion: check that Conan generated the toolchain file correctly",
		},
	},
}

// Fallback is reported when no rule matches.
var Fallback = Rule{
	Name: "generic",
	Hint: []string{
		"Check CMakeLists.txt for syntax errors",
		"Make sure every referenced target is defined",
		"Verify the Conan dependencies were installed correctly",
	},
}

// Diagnosis is the rule chosen for a failure.
type Diagnosis struct {
	Rule     Rule
	Fallback bool
}

// Diagnose returns the first rule matching stderr, or Fallback.
func Diagnose(stderr string, rules []Rule) Diagnosis {
	for _, r := range rules {
		if r.Matches(stderr) {
			return Diagnosis{Rule: r}
		}
	}
	return Diagnosis{Rule: Fallback, Fallback: true}
}
