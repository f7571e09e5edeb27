// Package detector turns repeated latest-manifest snapshots into
// edge-triggered new-build events.
package detector

import (
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
)

// Phase is the observable stage of a State.
type Phase int

const (
	// Uninitialized means nothing has been observed yet.
	Uninitialized Phase = iota

	// Observed means one manifest has been seen and no change since.
	Observed

	// Changed means the latest tick replaced an earlier manifest.
	Changed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Observed:
		return "observed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// State is the poll state carried between ticks. "" means unset.
type State struct {
	Current  string
	Previous string
}

// Phase derives the phase from the stored ids.
func (s State) Phase() Phase {
	switch {
	case s.Current == "":
		return Uninitialized
	case s.Previous == "" || s.Previous == s.Current:
		return Observed
	default:
		return Changed
	}
}

// Acknowledge returns the state with the change consumed, so the next tick
// starts from Observed.
func (s State) Acknowledge() State {
	return State{Current: s.Current}
}

// Outcome classifies one tick.
type Outcome int

const (
	// Unchanged means the latest manifest equals the stored one, or the
	// provider had nothing to report yet.
	Unchanged Outcome = iota

	// Initialized means the first manifest was observed.
	Initialized

	// NewBuild means a different manifest replaced the stored one.
	NewBuild
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Initialized:
		return "initialized"
	case NewBuild:
		return "new build"
	default:
		return "unknown"
	}
}

// Event is raised once per manifest transition.
type Event struct {
	ManifestID string
	PreviousID string

	// Version is nil when the new manifest is not yet in any history feed.
	Version *manifest.Version
}

// Tick folds one observed manifest id into s. An empty id leaves s as is.
func Tick(s State, latest string) (State, Outcome) {
	if latest == "" || latest == s.Current {
		return s, Unchanged
	}
	next := State{Current: latest, Previous: s.Current}
	if s.Current == "" {
		return next, Initialized
	}
	return next, NewBuild
}
