package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/config"
	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the configuration file",
		Long: `Validate the configuration file against the embedded schema, then run
the semantic checks: feed URLs are absolute, the binary window is a positive
even byte count, and the binary segment indices are distinct.

Examples:
  vutil config vet
  vutil config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path, err := config.ExpandPath(cfg.ConfigPath)
			if err != nil {
				return cmdutil.Fail("resolving config path", err)
			}

			exists, err := config.FileExists(path)
			if err != nil {
				return cmdutil.Fail("checking config file", err)
			}
			if !exists {
				return cmdutil.Fail("validating configuration", oerrors.NewNotFoundError(
					"configuration file not found", path,
					"Run 'vutil config init' to create default configuration"))
			}

			validator, err := config.NewValidator()
			if err != nil {
				return cmdutil.Fail("creating validator", err)
			}

			if err := validator.ValidateFile(path); err != nil {
				var verrs config.ValidationErrors
				if errors.As(err, &verrs) {
					fmt.Fprintln(c.ErrOrStderr(), output.FormatFailure("config validation failed: "+path))
					for _, e := range verrs {
						fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
					}
					return &oerrors.ExitError{Err: err, Code: oerrors.ExitValidationError, Printed: true}
				}
				return cmdutil.Fail("validating configuration", err)
			}

			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file is valid: "+path))
			return nil
		},
	}
}
