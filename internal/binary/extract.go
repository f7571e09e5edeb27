// Package binary recovers the build-info string table embedded in a game
// executable.
//
// The table follows a UTF-16LE marker. The bytes after the marker are a run
// of null-terminated UTF-16LE strings: raw branch, build date, release version,
// PBE version. Positions and window size are part of Layout since they have
// moved between builds.
package binary

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
)

// DefaultMarker is the ASCII tag preceding the build-info table.
const DefaultMarker = "++Ares-Core+"

// DefaultWindow is the number of bytes decoded after the marker.
const DefaultWindow = 96

// Layout describes where the build-info fields sit.
type Layout struct {
	// Marker is the ASCII tag, searched for in its UTF-16LE encoding.
	Marker string

	// Window is the byte count decoded after the marker.
	Window int

	// Segment positions after empty segments are dropped.
	BranchIndex         int
	DateIndex           int
	ReleaseVersionIndex int
	PBEVersionIndex     int
}

// DefaultLayout returns the layout observed in current release builds.
func DefaultLayout() Layout {
	return Layout{
		Marker:              DefaultMarker,
		Window:              DefaultWindow,
		BranchIndex:         0,
		DateIndex:           1,
		ReleaseVersionIndex: 2,
		PBEVersionIndex:     3,
	}
}

// Validate checks the layout for values that can never match.
func (l Layout) Validate() error {
	switch {
	case l.Marker == "":
		return fmt.Errorf("%w: binary marker is empty", oerrors.ErrValidation)
	case l.Window <= 0 || l.Window%2 != 0:
		return fmt.Errorf("%w: binary window %d must be a positive even byte count", oerrors.ErrValidation, l.Window)
	case l.BranchIndex < 0 || l.DateIndex < 0 || l.ReleaseVersionIndex < 0 || l.PBEVersionIndex < 0:
		return fmt.Errorf("%w: binary segment indices must not be negative", oerrors.ErrValidation)
	}
	return nil
}

// Info is the decoded build-info table.
type Info struct {
	// RawBranch is the branch segment before canonicalization.
	RawBranch string `json:"rawBranch"`

	// Branch is the canonical branch.
	Branch string `json:"branch"`

	// Date is the build date segment.
	Date string `json:"date"`

	// ReleaseVersion and PBEVersion are the two version candidates. Either
	// may be empty when the table is shorter than the layout expects.
	ReleaseVersion string `json:"releaseVersion,omitempty"`
	PBEVersion     string `json:"pbeVersion,omitempty"`

	// Version is the candidate matching the branch: the PBE version for
	// "pbe", the release version otherwise.
	Version string `json:"version"`

	// Segments is the full non-empty segment list in table order.
	Segments []string `json:"segments"`
}

// encodeMarker returns the UTF-16LE bytes of an ASCII marker.
func encodeMarker(marker string) []byte {
	out := make([]byte, 0, len(marker)*2)
	for i := 0; i < len(marker); i++ {
		out = append(out, marker[i], 0)
	}
	return out
}

// Segments locates the marker and returns the non-empty null-separated
// strings that follow it.
func Segments(data []byte, layout Layout) ([]string, error) {
	marker := encodeMarker(layout.Marker)
	idx := bytes.Index(data, marker)
	if idx < 0 {
		return nil, &oerrors.MarkerNotFoundError{Marker: layout.Marker}
	}

	start := idx + len(marker)
	end := min(start+layout.Window, len(data))
	window := data[start:end]
	if len(window)%2 != 0 {
		window = window[:len(window)-1]
	}

	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(window)
	if err != nil {
		return nil, fmt.Errorf("decoding build-info table: %w", err)
	}

	var segments []string
	for _, s := range strings.Split(string(decoded), "\x00") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments, nil
}

// Extract decodes the build-info table from an executable image.
func Extract(data []byte, layout Layout) (Info, error) {
	if err := layout.Validate(); err != nil {
		return Info{}, err
	}

	segments, err := Segments(data, layout)
	if err != nil {
		return Info{}, err
	}

	at := func(i int) string {
		if i < len(segments) {
			return segments[i]
		}
		return ""
	}

	info := Info{
		RawBranch:      at(layout.BranchIndex),
		Date:           at(layout.DateIndex),
		ReleaseVersion: at(layout.ReleaseVersionIndex),
		PBEVersion:     at(layout.PBEVersionIndex),
		Segments:       segments,
	}

	if info.RawBranch == "" {
		return Info{}, &oerrors.MalformedRecordError{Source: "executable", Index: layout.BranchIndex, Field: "branch"}
	}
	if info.Date == "" {
		return Info{}, &oerrors.MalformedRecordError{Source: "executable", Index: layout.DateIndex, Field: "date"}
	}
	info.Branch = manifest.CanonicalBranch(info.RawBranch)

	if info.Branch == manifest.BranchPBE {
		info.Version = info.PBEVersion
		if info.Version == "" {
			return Info{}, &oerrors.MalformedRecordError{Source: "executable", Index: layout.PBEVersionIndex, Field: "pbe version"}
		}
	} else {
		info.Version = info.ReleaseVersion
		if info.Version == "" {
			return Info{}, &oerrors.MalformedRecordError{Source: "executable", Index: layout.ReleaseVersionIndex, Field: "release version"}
		}
	}

	return info, nil
}

// ExtractFile reads the executable at path and decodes its build-info table.
// The file is opened read-only.
func ExtractFile(path string, layout Layout) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, oerrors.NewNotFoundError("executable does not exist", path, "pass the path to the game's shipping executable")
		}
		return Info{}, fmt.Errorf("reading executable: %w", err)
	}

	info, err := Extract(data, layout)
	if err != nil {
		var mnf *oerrors.MarkerNotFoundError
		if errors.As(err, &mnf) {
			mnf.Path = path
		}
		return Info{}, err
	}
	return info, nil
}
