package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/output"
	"github.com/NotToDisturb/VersionUtils/internal/source"
)

// NewLatestCmd creates the latest command.
func NewLatestCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var outFlags cmdutil.OutputFlags

	c := &cobra.Command{
		Use:   "latest",
		Short: "Show the currently live manifest",
		Long: `Resolve the currently authoritative manifest.

The merged history head is cross-checked against the operator's live
configuration (config: sources.patchline). If the live build is one of the
two newest history entries the history head wins, since it may be a newer
pbe build. Otherwise the feeds are lagging and the live build wins.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			format, err := outFlags.Parse()
			if err != nil {
				return cmdutil.Fail("invalid flag", err)
			}
			conf, err := cfg.Validated()
			if err != nil {
				return cmdutil.Fail("invalid configuration", err)
			}

			resolver := cmdutil.NewResolver(conf, cmdutil.NewFetcher(conf))

			var latest source.Latest
			err = output.RunWithSpinner(c.Context(), "Resolving latest manifest...", func(ctx context.Context) error {
				var err error
				latest, err = resolver.Latest(ctx)
				return err
			})
			if err != nil {
				return cmdutil.Fail("resolving latest manifest", err)
			}

			opts := output.VersionOptions{Format: format, Writer: c.OutOrStdout()}
			if latest.Version == nil {
				if format != output.FormatIDs {
					output.Warn("manifest not yet in any history feed", "manifest", latest.ManifestID)
				}
				_, err := fmt.Fprintln(c.OutOrStdout(), latest.ManifestID)
				return err
			}
			return output.WriteVersion(*latest.Version, opts)
		},
	}

	outFlags.AddTo(c)
	return c
}
