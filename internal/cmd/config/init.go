package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/config"
	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

const configHeader = `# vutil configuration.
# Every key can be overridden with a VUTIL_ environment variable,
# e.g. VUTIL_CHECK_INTERVAL=30s or VUTIL_SOURCES_LIVE=https://...
`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default configuration to the resolved config path.

The config path is resolved using precedence:
  --config flag > VUTIL_CONFIG env > ~/.vutil/config.yaml

Examples:
  vutil config init

  # Overwrite existing configuration
  vutil config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := runInit(cfg.ConfigPath, force); err != nil {
				return cmdutil.Fail("initializing configuration", err)
			}
			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration written to "+cfg.ConfigPath))
			fmt.Fprintln(c.OutOrStdout(), "Validate with: vutil config vet")
			return nil
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return c
}

func runInit(configPath string, force bool) error {
	path, err := config.ExpandPath(configPath)
	if err != nil {
		return err
	}

	exists, err := config.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding default configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	output.Debug("configuration written", "path", path, "overwrite", exists)
	return nil
}
