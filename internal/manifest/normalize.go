package manifest

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

// RawBuildInfo is the nested build-info object of a live feed record.
type RawBuildInfo struct {
	Branch    *string `json:"branch"`
	Version   *string `json:"version"`
	BuildDate *string `json:"build_date"`
}

// RawRecord is one record of the live feed. Pointer fields distinguish an
// absent field from a zero value.
type RawRecord struct {
	ID               *string       `json:"id"`
	BuildInfo        *RawBuildInfo `json:"build_info"`
	UploadTimestamp  *float64      `json:"upload_timestamp"`
	ReleaseTimestamp *float64      `json:"release_timestamp"`
}

// ArchiveRecord is one record of the archival feed, which already uses the
// canonical field names.
type ArchiveRecord struct {
	Manifest         *string  `json:"manifest"`
	Branch           *string  `json:"branch"`
	Version          *string  `json:"version"`
	Date             *string  `json:"date"`
	UploadTimestamp  *float64 `json:"upload_timestamp"`
	ReleaseTimestamp *float64 `json:"release_timestamp"`
}

// CanonicalBranch strips the release-train suffix from a raw branch name:
// "release-05.03" becomes "release". "pbe" passes through unchanged.
func CanonicalBranch(raw string) string {
	if raw == BranchPBE {
		return raw
	}
	if i := strings.Index(raw, "-"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// Normalize converts a live feed record into a Version. A missing
// release_timestamp (or JSON null) means the build is not yet released.
func Normalize(source string, index int, r RawRecord) (Version, error) {
	missing := func(field string) error {
		return &oerrors.MalformedRecordError{Source: source, Index: index, Field: field}
	}

	switch {
	case r.ID == nil || *r.ID == "":
		return Version{}, missing("id")
	case r.BuildInfo == nil:
		return Version{}, missing("build_info")
	case r.BuildInfo.Branch == nil:
		return Version{}, missing("build_info.branch")
	case r.BuildInfo.Version == nil || *r.BuildInfo.Version == "":
		return Version{}, missing("build_info.version")
	case r.BuildInfo.BuildDate == nil:
		return Version{}, missing("build_info.build_date")
	case r.UploadTimestamp == nil:
		return Version{}, missing("upload_timestamp")
	}

	v := Version{
		ManifestID:      *r.ID,
		Branch:          CanonicalBranch(*r.BuildInfo.Branch),
		Version:         *r.BuildInfo.Version,
		BuildDate:       *r.BuildInfo.BuildDate,
		UploadTimestamp: int64(*r.UploadTimestamp),
	}
	if r.ReleaseTimestamp != nil {
		v.ReleaseTimestamp = int64(*r.ReleaseTimestamp)
	}
	return v, nil
}

// NormalizeArchive converts an archival feed record into a Version.
func NormalizeArchive(source string, index int, r ArchiveRecord) (Version, error) {
	missing := func(field string) error {
		return &oerrors.MalformedRecordError{Source: source, Index: index, Field: field}
	}

	switch {
	case r.Manifest == nil || *r.Manifest == "":
		return Version{}, missing("manifest")
	case r.Branch == nil:
		return Version{}, missing("branch")
	case r.Version == nil || *r.Version == "":
		return Version{}, missing("version")
	case r.UploadTimestamp == nil:
		return Version{}, missing("upload_timestamp")
	}

	v := Version{
		ManifestID:      *r.Manifest,
		Branch:          CanonicalBranch(*r.Branch),
		Version:         *r.Version,
		UploadTimestamp: int64(*r.UploadTimestamp),
	}
	if r.Date != nil {
		v.BuildDate = *r.Date
	}
	if r.ReleaseTimestamp != nil {
		v.ReleaseTimestamp = int64(*r.ReleaseTimestamp)
	}
	return v, nil
}

// NormalizeBatch normalizes every record with fn, skipping the ones that are
// malformed. The returned error aggregates the rejected records and is nil
// when all records were accepted. If records is non-empty and every record
// was rejected, the history is nil: the feed's schema has drifted.
func NormalizeBatch[R any](source string, records []R, fn func(string, int, R) (Version, error)) (History, error) {
	var (
		out  = make(History, 0, len(records))
		errs *multierror.Error
	)
	for i, r := range records {
		v, err := fn(source, i, r)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, v)
	}
	if len(records) > 0 && len(out) == 0 {
		return nil, errs.ErrorOrNil()
	}
	return out, errs.ErrorOrNil()
}
