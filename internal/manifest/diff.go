package manifest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// Diff renders the field-level differences between two builds. It returns
// an empty string when the records are identical.
func Diff(from, to Version, useColor bool) (string, error) {
	fromInput, err := versionInput(from)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", from.ManifestID, err)
	}
	toInput, err := versionInput(to)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", to.ManifestID, err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing records: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func versionInput(v Version) (ytbx.InputFile, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: v.ManifestID, Documents: docs}, nil
}
