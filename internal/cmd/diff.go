package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <manifest> <manifest>",
		Short: "Compare two manifests from the merged history",
		Long: `Show the field-level differences between two builds of the merged
history.

Example:
  vutil diff 5F1C2B7A0E3D4C11 8A9B0C1D2E3F4A5B`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			conf, err := cfg.Validated()
			if err != nil {
				return cmdutil.Fail("invalid configuration", err)
			}

			resolver := cmdutil.NewResolver(conf, cmdutil.NewFetcher(conf))

			var history manifest.History
			err = output.RunWithSpinner(c.Context(), "Fetching manifests...", func(ctx context.Context) error {
				var err error
				history, err = resolver.History(ctx)
				return err
			})
			if err != nil {
				return cmdutil.Fail("fetching manifests", err)
			}

			records := make([]manifest.Version, 0, 2)
			for _, id := range args {
				v, ok := history.Find(id)
				if !ok {
					return cmdutil.Fail("comparing manifests", oerrors.NewNotFoundError(
						fmt.Sprintf("manifest %s is not in the merged history", id), "",
						"list known manifests with: vutil query -o ids"))
				}
				records = append(records, v)
			}

			report, err := manifest.Diff(records[0], records[1], output.IsTTY())
			if err != nil {
				return cmdutil.Fail("comparing manifests", err)
			}
			if report == "" {
				_, err := fmt.Fprintln(c.OutOrStdout(), "no differences")
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), report)
			return err
		},
	}
	return c
}
