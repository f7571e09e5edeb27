// Package engine maps game build versions to the engine release they were
// compiled against.
//
// Thresholds are kept as an ordered slice, newest first. Lookup returns the
// descriptor of the first threshold the queried version is at least as new as.
package engine

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/pkg/vercmp"
)

//go:embed engines.yaml
var defaultTableYAML []byte

// Descriptor names an engine release and the tool profile used to read its
// assets.
type Descriptor struct {
	EngineName  string `json:"engine" yaml:"engine"`
	ToolProfile string `json:"profile" yaml:"profile"`
}

// Entry pairs a threshold game version with its descriptor.
type Entry struct {
	Threshold  string `json:"threshold" yaml:"threshold"`
	Descriptor `yaml:",inline"`
}

// Table is an ordered threshold table, newest threshold first.
type Table struct {
	entries []Entry
}

// NewTable validates entries and orders them newest first. Duplicate
// thresholds are rejected.
func NewTable(entries []Entry) (*Table, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	seen := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		if _, err := vercmp.Parse(e.Threshold); err != nil {
			return nil, fmt.Errorf("engine table: %w", err)
		}
		if e.EngineName == "" {
			return nil, fmt.Errorf("%w: engine table threshold %q has no engine name", oerrors.ErrValidation, e.Threshold)
		}
		if seen[e.Threshold] {
			return nil, fmt.Errorf("%w: engine table threshold %q listed twice", oerrors.ErrValidation, e.Threshold)
		}
		seen[e.Threshold] = true
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		c, _ := vercmp.Compare(sorted[i].Threshold, sorted[j].Threshold)
		return c > 0
	})

	return &Table{entries: sorted}, nil
}

// DefaultTable returns the embedded threshold table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded engine table: %v", err))
	}
	return t
}

// ParseTable decodes a YAML list of entries.
func ParseTable(data []byte) (*Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding engine table: %v", oerrors.ErrValidation, err)
	}
	return NewTable(entries)
}

// LoadTable reads a table from path. An empty path yields the default table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("engine table file does not exist", path, "check engines.file in your config")
		}
		return nil, fmt.Errorf("reading engine table: %w", err)
	}
	return ParseTable(data)
}

// Entries returns a copy of the table, newest first.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the descriptor for version. ok is false when the version
// predates every threshold.
func (t *Table) Lookup(version string) (d Descriptor, ok bool, err error) {
	e, ok, err := t.LookupEntry(version)
	return e.Descriptor, ok, err
}

// LookupEntry is Lookup returning the whole matched entry.
func (t *Table) LookupEntry(version string) (Entry, bool, error) {
	if _, err := vercmp.Parse(version); err != nil {
		return Entry{}, false, err
	}
	for _, e := range t.entries {
		newer, err := vercmp.IsNewer(version, e.Threshold)
		if err != nil {
			return Entry{}, false, err
		}
		if newer {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
