package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/binary"
	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
	"github.com/NotToDisturb/VersionUtils/pkg/engine"
)

// gameResult is the structured output of the game command.
type gameResult struct {
	Path      string             `json:"path" yaml:"path"`
	Branch    string             `json:"branch" yaml:"branch"`
	Date      string             `json:"date" yaml:"date"`
	Version   string             `json:"version" yaml:"version"`
	Engine    *engine.Descriptor `json:"engine,omitempty" yaml:"engine,omitempty"`
	Manifests []string           `json:"manifests,omitempty" yaml:"manifests,omitempty"`
}

// NewGameCmd creates the game command.
func NewGameCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outFlags cmdutil.OutputFlags
		lookup   bool
	)

	c := &cobra.Command{
		Use:   "game <executable>",
		Short: "Read the build version embedded in a game executable",
		Long: `Read the build-info table embedded in a local game executable and map
its version to the engine it was built with.

The table layout is configurable (config: binary.*) since it shifts between
client builds.

Examples:
  vutil game ./ShooterGame-Win64-Shipping.exe

  # Also list the manifests of this version from the merged history
  vutil game ./ShooterGame-Win64-Shipping.exe --lookup -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			format, err := outFlags.Parse()
			if err != nil {
				return cmdutil.Fail("invalid flag", err)
			}
			conf, err := cfg.Validated()
			if err != nil {
				return cmdutil.Fail("invalid configuration", err)
			}

			layout := cmdutil.BinaryLayout(conf)
			info, err := binary.ExtractFile(args[0], layout)
			if err != nil {
				return cmdutil.Fail("reading executable", err)
			}
			output.Debug("build-info table decoded", "segments", info.Segments)

			table, err := cmdutil.EngineTable(conf)
			if err != nil {
				return cmdutil.Fail("loading engine table", err)
			}

			result := gameResult{
				Path:    args[0],
				Branch:  info.Branch,
				Date:    info.Date,
				Version: info.Version,
			}
			desc, ok, err := table.Lookup(info.Version)
			if err != nil {
				return cmdutil.Fail("mapping engine version", err)
			}
			if ok {
				result.Engine = &desc
			} else {
				output.Warn("version predates every known engine", "version", info.Version)
			}

			if lookup {
				resolver := cmdutil.NewResolver(conf, cmdutil.NewFetcher(conf))
				var matches manifest.History
				err := output.RunWithSpinner(c.Context(), "Looking up manifests...", func(ctx context.Context) error {
					var err error
					matches, err = resolver.Query(ctx, manifest.Filter{Version: info.Version})
					return err
				})
				if err != nil {
					return cmdutil.Fail("looking up manifests", err)
				}
				result.Manifests = matches.IDs()
			}

			return writeGameResult(c.OutOrStdout(), format, result)
		},
	}

	outFlags.AddTo(c)
	c.Flags().BoolVar(&lookup, "lookup", false, "List matching manifests from the merged history")
	return c
}

func writeGameResult(w io.Writer, format output.OutputFormat, r gameResult) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.WriteValue(w, format, r)
	case output.FormatIDs:
		for _, id := range r.Manifests {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	}

	engineName, profile := "unknown", "-"
	if r.Engine != nil {
		engineName, profile = r.Engine.EngineName, r.Engine.ToolProfile
	}
	t := output.NewTable("FIELD", "VALUE").
		Row("branch", output.BranchStyle(r.Branch).Render(r.Branch)).
		Row("version", r.Version).
		Row("date", r.Date).
		Row("engine", engineName).
		Row("profile", profile)
	if r.Manifests != nil {
		t.Row("manifests", strings.Join(r.Manifests, "\n"))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
