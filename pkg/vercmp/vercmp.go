// Package vercmp compares dot-separated numeric build version strings.
//
// Components are compared as integers from left to right. No pre-release or
// build-metadata rules apply: "05.03.00.1234000" and "5.3.0.1234000" are equal.
// Each component must fit in an int.
package vercmp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

// ParseError reports a component of a version string that is not a
// non-negative integer.
type ParseError struct {
	Version   string
	Component string

	// OutOfRange is set for numeric components too large for an int.
	OutOfRange bool
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.OutOfRange {
		return fmt.Sprintf("version %q: component %q is out of range", e.Version, e.Component)
	}
	return fmt.Sprintf("version %q: component %q is not numeric", e.Version, e.Component)
}

// Is reports whether target is the shared parse sentinel.
func (e *ParseError) Is(target error) bool {
	return target == oerrors.ErrParse
}

// Parse splits a version on "." and converts every component to an integer.
func Parse(version string) ([]int, error) {
	parts := strings.Split(version, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, &ParseError{Version: version, Component: p, OutOfRange: errors.Is(err, strconv.ErrRange)}
		}
		out[i] = n
	}
	return out, nil
}

// Compare returns -1, 0 or 1 depending on whether a is older than, equal to,
// or newer than b. When every shared component is equal, the version with
// more components is the newer one.
func Compare(a, b string) (int, error) {
	pa, err := Parse(a)
	if err != nil {
		return 0, err
	}
	pb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	n := min(len(pa), len(pb))
	for i := 0; i < n; i++ {
		switch {
		case pa[i] > pb[i]:
			return 1, nil
		case pa[i] < pb[i]:
			return -1, nil
		}
	}

	switch {
	case len(pa) > len(pb):
		return 1, nil
	case len(pa) < len(pb):
		return -1, nil
	default:
		return 0, nil
	}
}

// IsNewer reports whether a is at least as new as b.
//
// The first differing component decides. On a full tie up to the shorter
// length, a counts as newer unless it has fewer components than b, so
// IsNewer("5.03.1", "5.03") and IsNewer("5.03", "5.03") are both true.
func IsNewer(a, b string) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
