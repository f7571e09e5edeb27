// Package manifest holds the canonical build record and the algorithms that
// normalize, reconcile, and filter manifest histories.
package manifest

import "sort"

// Well-known branch names.
const (
	BranchRelease = "release"
	BranchPBE     = "pbe"
)

// Version is one build artifact as published by any feed.
type Version struct {
	// ManifestID uniquely identifies the build across all feeds.
	ManifestID string `json:"manifest" yaml:"manifest"`

	// Branch is the canonical release train ("release", "pbe").
	Branch string `json:"branch" yaml:"branch"`

	// Version is the dot-separated numeric build version.
	Version string `json:"version" yaml:"version"`

	// BuildDate is passed through from the feed unparsed.
	BuildDate string `json:"date" yaml:"date"`

	// UploadTimestamp is when the artifact was produced (unix seconds).
	UploadTimestamp int64 `json:"upload_timestamp" yaml:"upload_timestamp"`

	// ReleaseTimestamp is when the build went live; 0 means not yet released.
	ReleaseTimestamp int64 `json:"release_timestamp" yaml:"release_timestamp"`
}

// OrderingKey returns the release timestamp if set, else the upload timestamp.
func (v Version) OrderingKey() int64 {
	if v.ReleaseTimestamp != 0 {
		return v.ReleaseTimestamp
	}
	return v.UploadTimestamp
}

// Released reports whether the build has gone live.
func (v Version) Released() bool {
	return v.ReleaseTimestamp != 0
}

// History is an ordered list of builds, newest first, without duplicate
// manifest ids.
type History []Version

// Head returns the newest build. ok is false for an empty history.
func (h History) Head() (v Version, ok bool) {
	if len(h) == 0 {
		return Version{}, false
	}
	return h[0], true
}

// Find returns the build with the given manifest id.
func (h History) Find(manifestID string) (Version, bool) {
	for _, v := range h {
		if v.ManifestID == manifestID {
			return v, true
		}
	}
	return Version{}, false
}

// IDs returns the manifest ids in history order.
func (h History) IDs() []string {
	ids := make([]string, len(h))
	for i, v := range h {
		ids[i] = v.ManifestID
	}
	return ids
}

// SortDescending orders h newest first by ordering key. Equal keys keep
// their relative order.
func SortDescending(h History) {
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].OrderingKey() > h[j].OrderingKey()
	})
}
