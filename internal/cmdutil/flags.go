// Package cmdutil provides shared command utilities: flag groups, source
// wiring from configuration, and error reporting.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/manifest"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// OutputFlags holds the -o flag.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flag on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", string(output.FormatTable),
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
}

// Parse returns the selected format or a validation error.
func (f *OutputFlags) Parse() (output.OutputFormat, error) {
	format, ok := output.ParseOutputFormat(f.Format)
	if !ok {
		return "", oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", f.Format), "--output",
			"use one of: "+strings.Join(output.ValidFormats(), ", "))
	}
	return format, nil
}

// FilterFlags holds the history filter flags.
type FilterFlags struct {
	Version string
	Branch  string
}

// AddTo registers the filter flags on the given cobra command.
func (f *FilterFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Version, "version", "",
		"Only builds whose version contains this substring")
	cmd.Flags().StringVarP(&f.Branch, "branch", "b", "",
		"Only builds on this branch: "+strings.Join(quoted(manifest.ValidBranches()), ", "))
}

// Filter returns the manifest filter.
func (f *FilterFlags) Filter() manifest.Filter {
	return manifest.Filter{Version: f.Version, Branch: f.Branch}
}

func quoted(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
