package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// NewQueryCmd creates the query command.
func NewQueryCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outFlags    cmdutil.OutputFlags
		filterFlags cmdutil.FilterFlags
	)

	c := &cobra.Command{
		Use:   "query",
		Short: "List manifests matching a version and branch",
		Long: `List the merged manifest history, newest first, filtered by substring
containment on the version and branch.

Examples:
  # Every 5.03 build
  vutil query --version 05.03

  # Release builds only, one manifest id per line
  vutil query --version 05.03 --branch release -o ids`,
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
			filter := filterFlags.Filter()

			var matches manifest.History
			err = output.RunWithSpinner(c.Context(), "Fetching manifests...", func(ctx context.Context) error {
				var err error
				matches, err = resolver.Query(ctx, filter)
				return err
			})
			if err != nil {
				return cmdutil.Fail("querying manifests", err)
			}

			output.Info("query complete", "version", filter.Version, "branch", filter.Branch, "found", len(matches))
			return output.WriteVersions(matches, output.VersionOptions{Format: format, Writer: c.OutOrStdout()})
		},
	}

	outFlags.AddTo(c)
	filterFlags.AddTo(c)
	return c
}
