package source

import (
	"context"
	"encoding/json"
	"strings"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

const manifestSuffix = ".manifest"

// PatchlineSource reads the operator's public live configuration and
// extracts the manifest id currently deployed to one configuration entry.
type PatchlineSource struct {
	ID      string
	Fetcher Fetcher

	// Key is the top-level key holding the live patchline.
	Key string

	// Platform and Configuration select the deployment entry.
	Platform      string
	Configuration string
}

type patchline struct {
	Platforms map[string]struct {
		Configurations []struct {
			ID       string `json:"id"`
			PatchURL string `json:"patch_url"`
		} `json:"configurations"`
	} `json:"platforms"`
}

// LiveManifestID returns the manifest id named by the configured entry's
// patch file.
func (s *PatchlineSource) LiveManifestID(ctx context.Context) (string, error) {
	var doc map[string]json.RawMessage
	if err := fetchJSON(ctx, s.Fetcher, s.ID, &doc); err != nil {
		return "", err
	}

	malformed := func(field string) error {
		return &oerrors.MalformedRecordError{Source: s.ID, Index: -1, Field: field}
	}

	raw, ok := doc[s.Key]
	if !ok {
		return "", malformed(s.Key)
	}
	var pl patchline
	if err := json.Unmarshal(raw, &pl); err != nil {
		return "", malformed(s.Key)
	}

	platform, ok := pl.Platforms[s.Platform]
	if !ok {
		return "", malformed("platforms." + s.Platform)
	}
	for _, c := range platform.Configurations {
		if c.ID != s.Configuration {
			continue
		}
		id := ExtractManifestID(c.PatchURL)
		if id == "" {
			return "", malformed("patch_url")
		}
		return id, nil
	}
	return "", malformed("configurations[id=" + s.Configuration + "]")
}

// ExtractManifestID returns the final path segment of a patch file
// reference, up to the ".manifest" suffix. It returns "" when that segment
// is empty.
func ExtractManifestID(patchURL string) string {
	if i := strings.Index(patchURL, manifestSuffix); i >= 0 {
		patchURL = patchURL[:i]
	}
	return patchURL[strings.LastIndex(patchURL, "/")+1:]
}
