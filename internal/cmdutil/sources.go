package cmdutil

import (
	"github.com/NotToDisturb/VersionUtils/internal/binary"
	"github.com/NotToDisturb/VersionUtils/internal/config"
	"github.com/NotToDisturb/VersionUtils/internal/source"
	"github.com/NotToDisturb/VersionUtils/pkg/engine"
)

// NewFetcher creates the HTTP fetcher for every configured feed.
func NewFetcher(cfg *config.Config) *source.HTTPFetcher {
	return source.NewHTTPFetcher(map[string]string{
		source.Archive:   cfg.Sources.Archive,
		source.Live:      cfg.Sources.Live,
		source.Patchline: cfg.Sources.Patchline,
	}, source.HTTPOptions{
		Timeout:   cfg.HTTP.Timeout,
		Retries:   cfg.HTTP.Retries,
		RateLimit: cfg.HTTP.RateLimit,
		UserAgent: cfg.HTTP.UserAgent,
	})
}

// NewResolver wires the archive as primary feed, the live feed as
// supplementary, and the patchline when one is configured.
func NewResolver(cfg *config.Config, f source.Fetcher) *source.Resolver {
	r := &source.Resolver{
		Primary:       &source.ArchiveSource{ID: source.Archive, Fetcher: f},
		Supplementary: &source.LiveSource{ID: source.Live, Fetcher: f},
	}
	if cfg.Sources.Patchline != "" {
		r.Patchline = &source.PatchlineSource{
			ID:            source.Patchline,
			Fetcher:       f,
			Key:           cfg.Sources.PatchlineKey,
			Platform:      cfg.Sources.Platform,
			Configuration: cfg.Sources.Configuration,
		}
	}
	return r
}

// BinaryLayout converts the binary section into an extractor layout.
func BinaryLayout(cfg *config.Config) binary.Layout {
	return binary.Layout{
		Marker:              cfg.Binary.Marker,
		Window:              cfg.Binary.Window,
		BranchIndex:         cfg.Binary.BranchIndex,
		DateIndex:           cfg.Binary.DateIndex,
		ReleaseVersionIndex: cfg.Binary.ReleaseVersionIndex,
		PBEVersionIndex:     cfg.Binary.PBEVersionIndex,
	}
}

// EngineTable loads the configured threshold table, or the embedded default.
func EngineTable(cfg *config.Config) (*engine.Table, error) {
	path, err := config.ExpandPath(cfg.Engines.File)
	if err != nil {
		return nil, err
	}
	return engine.LoadTable(path)
}
