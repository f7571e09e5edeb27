package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/NotToDisturb/VersionUtils/internal/manifest"
)

// Column indices of the version table.
const (
	colManifest = iota
	colBranch
	colVersion
	colDate
	colReleased
)

// VersionOptions controls version list output.
type VersionOptions struct {
	Format OutputFormat
	Writer io.Writer
}

// WriteVersions writes h in the requested format. An empty history writes
// nothing for ids, an empty list for json and yaml, and a header-only table.
func WriteVersions(h manifest.History, opts VersionOptions) error {
	switch opts.Format {
	case FormatIDs:
		for _, id := range h.IDs() {
			if _, err := fmt.Fprintln(opts.Writer, id); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return writeJSON(opts.Writer, nonNil(h))
	case FormatYAML:
		return writeYAML(opts.Writer, nonNil(h))
	case FormatTable, "":
		_, err := fmt.Fprintln(opts.Writer, RenderVersionTable(h))
		return err
	}
	return fmt.Errorf("unsupported output format %q", opts.Format)
}

// WriteVersion writes a single build in the requested format.
func WriteVersion(v manifest.Version, opts VersionOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(opts.Writer, v)
	case FormatYAML:
		return writeYAML(opts.Writer, v)
	}
	return WriteVersions(manifest.History{v}, opts)
}

// RenderVersionTable renders builds as a table with branch-colored rows.
func RenderVersionTable(h manifest.History) string {
	t := NewTable("MANIFEST", "BRANCH", "VERSION", "DATE", "RELEASED")
	for _, v := range h {
		t.Row(v.ManifestID, v.Branch, v.Version, v.BuildDate, FormatTimestamp(v.ReleaseTimestamp))
	}
	t.CellStyleFunc(func(_, col int, value string) lipgloss.Style {
		switch col {
		case colManifest:
			return StyleNoun
		case colBranch:
			return BranchStyle(value)
		case colReleased:
			if value == unreleased {
				return StyleDim
			}
		}
		return lipgloss.NewStyle()
	})
	return t.String()
}

const unreleased = "-"

// FormatTimestamp renders unix seconds as UTC RFC 3339. Zero renders as "-".
func FormatTimestamp(ts int64) string {
	if ts == 0 {
		return unreleased
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func nonNil(h manifest.History) manifest.History {
	if h == nil {
		return manifest.History{}
	}
	return h
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteValue writes v as JSON or YAML.
func WriteValue(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	}
	return fmt.Errorf("format %s not supported for structured output", format)
}
