package manifest

import "strings"

// Filter selects builds by substring containment. Empty fields match
// everything.
type Filter struct {
	Version string
	Branch  string
}

// Match reports whether v satisfies the filter.
func (f Filter) Match(v Version) bool {
	return strings.Contains(v.Version, f.Version) && strings.Contains(v.Branch, f.Branch)
}

// Apply returns the matching builds in history order.
func (f Filter) Apply(h History) History {
	out := make(History, 0)
	for _, v := range h {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// ValidBranches are the branch filters accepted on the command line.
func ValidBranches() []string {
	return []string{"", BranchPBE, BranchRelease}
}

// IsValidBranch reports whether b is an accepted branch filter.
func IsValidBranch(b string) bool {
	for _, valid := range ValidBranches() {
		if b == valid {
			return true
		}
	}
	return false
}
