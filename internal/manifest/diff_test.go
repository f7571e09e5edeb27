package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Identical(t *testing.T) {
	a := Version{ManifestID: "A", Branch: "release", Version: "1.0", UploadTimestamp: 1}

	out, err := Diff(a, a, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiff_ReportsChangedFields(t *testing.T) {
	a := Version{ManifestID: "A", Branch: "release", Version: "05.03.00.1", UploadTimestamp: 1}
	b := Version{ManifestID: "B", Branch: "release", Version: "05.04.00.2", UploadTimestamp: 2}

	out, err := Diff(a, b, false)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "version")
	assert.Contains(t, out, "05.04.00.2")
	assert.NotContains(t, out, "branch", "unchanged fields are not reported")
}
