package report

import "fmt"

// Policy controls which cases get per-case artifacts.
type Policy string

const (
	PolicyAll      Policy = "all"
	PolicyFailures Policy = "failures"
	PolicyNone     Policy = "none"
)

// ParsePolicy converts a flag or config value into a Policy.
// An empty string selects PolicyAll.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyAll, nil
	case PolicyAll, PolicyFailures, PolicyNone:
		return Policy(s), nil
	}
	return "", fmt.Errorf("invalid artifact policy %q (expected all, failures or none)", s)
}

// Keep reports whether a case with the given verdict gets artifacts.
func (p Policy) Keep(passed bool) bool {
	switch p {
	case PolicyAll:
		return true
	case PolicyFailures:
		return !passed
	}
	return false
}
