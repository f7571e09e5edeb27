package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for vutil configuration.
const envPrefix = "VUTIL"

// Loader handles loading and merging configuration from file and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with defaults registered, so
// every key can be overridden from the environment (VUTIL_CHECK_INTERVAL,
// VUTIL_SOURCES_LIVE, ...).
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	_ = v.BindEnv("log.timestamps")

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("sources.archive", d.Sources.Archive)
	v.SetDefault("sources.live", d.Sources.Live)
	v.SetDefault("sources.patchline", d.Sources.Patchline)
	v.SetDefault("sources.patchlineKey", d.Sources.PatchlineKey)
	v.SetDefault("sources.platform", d.Sources.Platform)
	v.SetDefault("sources.configuration", d.Sources.Configuration)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.retries", d.HTTP.Retries)
	v.SetDefault("http.rateLimit", d.HTTP.RateLimit)
	v.SetDefault("http.userAgent", d.HTTP.UserAgent)

	v.SetDefault("check.interval", d.Check.Interval)
	v.SetDefault("check.sliding", d.Check.Sliding)
	v.SetDefault("check.watch", d.Check.Watch)

	v.SetDefault("binary.marker", d.Binary.Marker)
	v.SetDefault("binary.window", d.Binary.Window)
	v.SetDefault("binary.branchIndex", d.Binary.BranchIndex)
	v.SetDefault("binary.dateIndex", d.Binary.DateIndex)
	v.SetDefault("binary.releaseVersionIndex", d.Binary.ReleaseVersionIndex)
	v.SetDefault("binary.pbeVersionIndex", d.Binary.PBEVersionIndex)

	v.SetDefault("engines.file", d.Engines.File)
}

// Load loads configuration from the given file path. A missing file is not
// an error: defaults and environment variables still apply.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		expandedPath, err := ExpandPath(configFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}

		l.v.SetConfigFile(expandedPath)
		l.v.SetConfigType("yaml")

		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the file viper read, or "" if none was read.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
