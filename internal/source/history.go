package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// HistorySource produces a normalized history, newest first.
type HistorySource interface {
	Name() string
	History(ctx context.Context) (manifest.History, error)
}

// ArchiveSource reads the archival feed, whose records already use the
// canonical field names and are published newest first.
type ArchiveSource struct {
	ID      string
	Fetcher Fetcher
}

// Name returns the feed id.
func (s *ArchiveSource) Name() string { return s.ID }

// History fetches and normalizes the archive.
func (s *ArchiveSource) History(ctx context.Context) (manifest.History, error) {
	var records []manifest.ArchiveRecord
	if err := fetchJSON(ctx, s.Fetcher, s.ID, &records); err != nil {
		return nil, err
	}
	return normalize(s.ID, records, manifest.NormalizeArchive)
}

// LiveSource reads the fast-moving feed. Its records nest build details
// under build_info and are not guaranteed to be ordered.
type LiveSource struct {
	ID      string
	Fetcher Fetcher
}

// Name returns the feed id.
func (s *LiveSource) Name() string { return s.ID }

// History fetches, normalizes and sorts the live feed.
func (s *LiveSource) History(ctx context.Context) (manifest.History, error) {
	var records []manifest.RawRecord
	if err := fetchJSON(ctx, s.Fetcher, s.ID, &records); err != nil {
		return nil, err
	}
	h, err := normalize(s.ID, records, manifest.Normalize)
	if err != nil {
		return nil, err
	}
	manifest.SortDescending(h)
	return h, nil
}

// normalize skips malformed records with a warning. A feed whose every
// record is malformed fails.
func normalize[R any](id string, records []R, fn func(string, int, R) (manifest.Version, error)) (manifest.History, error) {
	h, err := manifest.NormalizeBatch(id, records, fn)
	if h == nil && err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", id, err)
	}
	if err != nil {
		log := output.SourceLogger(id)
		for _, e := range unwrapAll(err) {
			log.Warn("skipping record", "err", e)
		}
	}
	output.SourceLogger(id).Debug("feed normalized", "records", len(records), "accepted", len(h))
	return h, nil
}

func fetchJSON(ctx context.Context, f Fetcher, id string, into any) error {
	data, err := f.Fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: decoding %s feed: %v", oerrors.ErrParse, id, err)
	}
	return nil
}

func unwrapAll(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}
