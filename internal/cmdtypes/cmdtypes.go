// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmd/config.
package cmdtypes

import (
	"fmt"

	"github.com/NotToDisturb/VersionUtils/internal/config"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the merged file, environment and default configuration.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// ConfigFileUsed is the file actually read, "" if none existed.
	ConfigFileUsed string

	Verbose bool
}

// Validated returns the configuration after running its semantic checks.
func (g *GlobalConfig) Validated() (*config.Config, error) {
	if g.Config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if err := g.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", g.ConfigPath, err)
	}
	return g.Config, nil
}
