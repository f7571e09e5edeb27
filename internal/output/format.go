package output

import "strings"

// OutputFormat specifies how command results are written to stdout.
type OutputFormat string

const (
	// FormatTable renders a styled table.
	FormatTable OutputFormat = "table"

	// FormatJSON outputs indented JSON.
	FormatJSON OutputFormat = "json"

	// FormatYAML outputs YAML.
	FormatYAML OutputFormat = "yaml"

	// FormatIDs outputs one manifest id per line.
	FormatIDs OutputFormat = "ids"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// Valid reports whether f is a known format.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML, FormatIDs:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses s case-insensitively. The second result is false
// for unknown input, in which case the lowered input is returned as-is.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch f := strings.ToLower(s); f {
	case "yml":
		return FormatYAML, true
	default:
		out := OutputFormat(f)
		return out, out.Valid()
	}
}

// ValidFormats returns the accepted -o values.
func ValidFormats() []string {
	return []string{"table", "json", "yaml", "ids"}
}
