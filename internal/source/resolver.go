package source

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// Resolver fetches the primary and supplementary feeds concurrently and
// merges them into one history.
type Resolver struct {
	Primary       HistorySource
	Supplementary HistorySource

	// Patchline is optional. When set, Latest cross-checks the history
	// head against the operator's live configuration.
	Patchline *PatchlineSource
}

// Latest is the currently authoritative build.
type Latest struct {
	ManifestID string

	// Version is nil when the manifest id is not yet in any history feed.
	Version *manifest.Version
}

// Resolve fetches both feeds and merges them. The merge only runs after both
// fetches have finished; either failing fails the whole resolution.
func (r *Resolver) Resolve(ctx context.Context) (manifest.MergeResult, error) {
	var primary, supplementary manifest.History

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := r.Primary.History(gctx)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", r.Primary.Name(), err)
		}
		primary = h
		return nil
	})
	g.Go(func() error {
		h, err := r.Supplementary.History(gctx)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", r.Supplementary.Name(), err)
		}
		supplementary = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return manifest.MergeResult{}, err
	}

	result := manifest.Merge(primary, supplementary)
	output.Debug("histories merged",
		"primary", len(primary),
		"supplementary", len(supplementary),
		"gapFill", len(result.GapFill),
		"merged", len(result.History),
	)
	return result, nil
}

// History returns the merged history.
func (r *Resolver) History(ctx context.Context) (manifest.History, error) {
	result, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return result.History, nil
}

// Query returns the merged builds matching f, in history order.
func (r *Resolver) Query(ctx context.Context, f manifest.Filter) (manifest.History, error) {
	if !manifest.IsValidBranch(f.Branch) {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid branch %q", f.Branch), "--branch",
			fmt.Sprintf("use one of %q", manifest.ValidBranches()))
	}
	h, err := r.History(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(h), nil
}

// Latest resolves the currently authoritative manifest.
//
// The live configuration only names the release build. If that build is one
// of the two newest history entries, the history head wins since it may be a
// newer pbe or not yet live build. Otherwise the history feeds are lagging
// and the live configuration wins. A live configuration that no longer has
// the expected shape falls back to the history head.
func (r *Resolver) Latest(ctx context.Context) (Latest, error) {
	var (
		history manifest.History
		liveID  string
		liveErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := r.History(gctx)
		history = h
		return err
	})
	if r.Patchline != nil {
		g.Go(func() error {
			liveID, liveErr = r.Patchline.LiveManifestID(gctx)
			if errors.Is(liveErr, oerrors.ErrMalformedRecord) {
				return nil
			}
			if liveErr != nil {
				return fmt.Errorf("fetching %s: %w", r.Patchline.ID, liveErr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Latest{}, err
	}
	if liveErr != nil {
		output.SourceLogger(r.Patchline.ID).Warn("ignoring live configuration", "err", liveErr)
		liveID = ""
	}

	return reconcile(history, liveID)
}

func reconcile(history manifest.History, liveID string) (Latest, error) {
	head, ok := history.Head()
	if liveID == "" {
		if !ok {
			return Latest{}, oerrors.NewNotFoundError("no manifests in any feed", "", "")
		}
		return Latest{ManifestID: head.ManifestID, Version: &head}, nil
	}

	for _, v := range history[:min(2, len(history))] {
		if v.ManifestID == liveID {
			return Latest{ManifestID: head.ManifestID, Version: &head}, nil
		}
	}

	latest := Latest{ManifestID: liveID}
	if v, found := history.Find(liveID); found {
		latest.Version = &v
	}
	return latest, nil
}
