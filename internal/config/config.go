// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"net/url"
	"time"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

// Default feed locations.
const (
	DefaultArchiveURL   = "https://raw.githubusercontent.com/NotToDisturb/VersionArchive/master/out/manifests.json"
	DefaultLiveURL      = "https://raw.githubusercontent.com/WhiteOwlBot/WhiteOwl-public-data/main/manifests.json"
	DefaultPatchlineURL = "https://clientconfig.rpg.riotgames.com/api/v1/config/public?namespace=keystone.products.valorant.patchlines"
	DefaultPatchlineKey = "keystone.products.valorant.patchlines.live"
)

// SourcesConfig locates the manifest feeds.
type SourcesConfig struct {
	// Archive is the authoritative, possibly lagging history feed.
	Archive string `json:"archive" yaml:"archive"`

	// Live is the fast-moving history feed used for gap-fill.
	Live string `json:"live" yaml:"live"`

	// Patchline is the operator's live configuration endpoint. Empty
	// disables live-configuration cross-checks.
	Patchline string `json:"patchline" yaml:"patchline"`

	// PatchlineKey is the top-level key holding the live patchline.
	PatchlineKey string `json:"patchlineKey" yaml:"patchlineKey"`

	// Platform and Configuration select the deployment entry whose patch
	// file names the live manifest.
	Platform      string `json:"platform" yaml:"platform"`
	Configuration string `json:"configuration" yaml:"configuration"`
}

// HTTPConfig tunes feed requests.
type HTTPConfig struct {
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	Retries   int           `json:"retries" yaml:"retries"`
	RateLimit float64       `json:"rateLimit" yaml:"rateLimit"`
	UserAgent string        `json:"userAgent" yaml:"userAgent"`
}

// CheckConfig controls the new-build polling loop.
type CheckConfig struct {
	// Interval between ticks.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Sliding measures the interval from tick completion instead of from
	// loop start.
	Sliding bool `json:"sliding" yaml:"sliding"`

	// Watch keeps polling after a new build is found.
	Watch bool `json:"watch" yaml:"watch"`
}

// BinaryConfig describes the executable's build-info table.
type BinaryConfig struct {
	Marker              string `json:"marker" yaml:"marker"`
	Window              int    `json:"window" yaml:"window"`
	BranchIndex         int    `json:"branchIndex" yaml:"branchIndex"`
	DateIndex           int    `json:"dateIndex" yaml:"dateIndex"`
	ReleaseVersionIndex int    `json:"releaseVersionIndex" yaml:"releaseVersionIndex"`
	PBEVersionIndex     int    `json:"pbeVersionIndex" yaml:"pbeVersionIndex"`
}

// EnginesConfig points at an optional threshold table override.
type EnginesConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config represents the vutil configuration.
// Loaded from ~/.vutil/config.yaml, overridden by VUTIL_* environment variables.
type Config struct {
	Sources SourcesConfig `json:"sources" yaml:"sources"`
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Check   CheckConfig   `json:"check" yaml:"check"`
	Binary  BinaryConfig  `json:"binary" yaml:"binary"`
	Engines EnginesConfig `json:"engines,omitempty" yaml:"engines,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `vutil config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Archive:       DefaultArchiveURL,
			Live:          DefaultLiveURL,
			Patchline:     DefaultPatchlineURL,
			PatchlineKey:  DefaultPatchlineKey,
			Platform:      "win",
			Configuration: "na",
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			Retries:   3,
			RateLimit: 2,
			UserAgent: "vutil",
		},
		Check: CheckConfig{
			Interval: 10 * time.Second,
		},
		Binary: BinaryConfig{
			Marker:              "++Ares-Core+",
			Window:              96,
			BranchIndex:         0,
			DateIndex:           1,
			ReleaseVersionIndex: 2,
			PBEVersionIndex:     3,
		},
	}
}

// Validate performs semantic checks the schema cannot express.
func (c *Config) Validate() error {
	var errs ValidationErrors

	for field, raw := range map[string]string{
		"sources.archive":   c.Sources.Archive,
		"sources.live":      c.Sources.Live,
		"sources.patchline": c.Sources.Patchline,
	} {
		if raw == "" {
			if field != "sources.patchline" {
				errs = append(errs, ValidationError{Field: field, Message: "must be set"})
			}
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%q is not an absolute URL", raw)})
		}
	}

	if c.Check.Interval <= 0 {
		errs = append(errs, ValidationError{Field: "check.interval", Message: "must be positive"})
	}
	if c.HTTP.RateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "http.rateLimit", Message: "must be positive"})
	}
	if c.Binary.Window <= 0 || c.Binary.Window%2 != 0 {
		errs = append(errs, ValidationError{Field: "binary.window", Message: "must be a positive even byte count"})
	}

	indices := map[string]int{
		"binary.branchIndex":         c.Binary.BranchIndex,
		"binary.dateIndex":           c.Binary.DateIndex,
		"binary.releaseVersionIndex": c.Binary.ReleaseVersionIndex,
		"binary.pbeVersionIndex":     c.Binary.PBEVersionIndex,
	}
	used := make(map[int]string, len(indices))
	for _, field := range []string{"binary.branchIndex", "binary.dateIndex", "binary.releaseVersionIndex", "binary.pbeVersionIndex"} {
		idx := indices[field]
		if other, ok := used[idx]; ok {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("shares index %d with %s", idx, other)})
			continue
		}
		used[idx] = field
	}

	if len(errs) > 0 {
		errs.sort()
		return fmt.Errorf("%w: %w", oerrors.ErrValidation, errs)
	}
	return nil
}
