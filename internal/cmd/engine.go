package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// NewEngineCmd creates the engine command.
func NewEngineCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outFlags cmdutil.OutputFlags
		list     bool
	)

	c := &cobra.Command{
		Use:   "engine [version]",
		Short: "Map a game version to its engine",
		Long: `Map a dot-separated game version to the engine release it was built
with, using the newest threshold the version is at least as new as.

A version older than every threshold is not an error: it is reported as an
unknown engine.

Examples:
  vutil engine 05.03.00.1234000

  # Print the threshold table (config: engines.file)
  vutil engine --list`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(c *cobra.Command, args []string) error {
			format, err := outFlags.Parse()
			if err != nil {
				return cmdutil.Fail("invalid flag", err)
			}
			conf, err := cfg.Validated()
			if err != nil {
				return cmdutil.Fail("invalid configuration", err)
			}
			table, err := cmdutil.EngineTable(conf)
			if err != nil {
				return cmdutil.Fail("loading engine table", err)
			}

			out := c.OutOrStdout()
			if list || len(args) == 0 {
				if format == output.FormatJSON || format == output.FormatYAML {
					return output.WriteValue(out, format, table.Entries())
				}
				t := output.NewTable("THRESHOLD", "ENGINE", "PROFILE")
				for _, e := range table.Entries() {
					t.Row(e.Threshold, e.EngineName, e.ToolProfile)
				}
				_, err := fmt.Fprintln(out, t.String())
				return err
			}

			entry, ok, err := table.LookupEntry(args[0])
			if err != nil {
				return cmdutil.Fail("mapping engine version", err)
			}
			if !ok {
				output.Warn("version predates every known engine", "version", args[0])
				_, err := fmt.Fprintln(out, "unknown")
				return err
			}

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.WriteValue(out, format, entry)
			}
			_, err = fmt.Fprintf(out, "%s (%s, threshold %s)\n", entry.EngineName, entry.ToolProfile, entry.Threshold)
			return err
		},
	}

	outFlags.AddTo(c)
	c.Flags().BoolVar(&list, "list", false, "Print the threshold table")
	return c
}
