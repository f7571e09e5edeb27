package manifest

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

func TestCanonicalBranch(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "release-05.03", want: "release"},
		{raw: "release-05.03-shipping", want: "release"},
		{raw: "release", want: "release"},
		{raw: "pbe", want: "pbe"},
		{raw: "pbe-05.04", want: "pbe"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalBranch(tt.raw))
		})
	}
}

func decodeRaw(t *testing.T, s string) RawRecord {
	t.Helper()
	var r RawRecord
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestNormalize(t *testing.T) {
	r := decodeRaw(t, `{
		"id": "A1B2C3",
		"build_info": {"branch": "release-05.03", "version": "05.03.00.1234000", "build_date": "Sep 1 2023"},
		"upload_timestamp": 1693526400,
		"release_timestamp": 1693958400
	}`)

	v, err := Normalize("live", 0, r)
	require.NoError(t, err)
	assert.Equal(t, Version{
		ManifestID:       "A1B2C3",
		Branch:           "release",
		Version:          "05.03.00.1234000",
		BuildDate:        "Sep 1 2023",
		UploadTimestamp:  1693526400,
		ReleaseTimestamp: 1693958400,
	}, v)
	assert.Equal(t, int64(1693958400), v.OrderingKey())
}

func TestNormalize_NullReleaseIsUnreleased(t *testing.T) {
	r := decodeRaw(t, `{
		"id": "P1",
		"build_info": {"branch": "pbe", "version": "05.04.00.1", "build_date": "x"},
		"upload_timestamp": 100,
		"release_timestamp": null
	}`)

	v, err := Normalize("live", 0, r)
	require.NoError(t, err)
	assert.False(t, v.Released())
	assert.Equal(t, int64(100), v.OrderingKey())
}

func TestNormalize_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{name: "no id", json: `{"build_info": {}, "upload_timestamp": 1}`, field: "id"},
		{name: "no build info", json: `{"id": "a", "upload_timestamp": 1}`, field: "build_info"},
		{name: "no branch", json: `{"id": "a", "build_info": {"version": "1", "build_date": "d"}, "upload_timestamp": 1}`, field: "build_info.branch"},
		{name: "no version", json: `{"id": "a", "build_info": {"branch": "pbe", "build_date": "d"}, "upload_timestamp": 1}`, field: "build_info.version"},
		{name: "no date", json: `{"id": "a", "build_info": {"branch": "pbe", "version": "1"}, "upload_timestamp": 1}`, field: "build_info.build_date"},
		{name: "no upload", json: `{"id": "a", "build_info": {"branch": "pbe", "version": "1", "build_date": "d"}}`, field: "upload_timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize("live", 3, decodeRaw(t, tt.json))
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrMalformedRecord))

			var mre *oerrors.MalformedRecordError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, tt.field, mre.Field)
			assert.Equal(t, 3, mre.Index)
		})
	}
}

func TestNormalizeArchive(t *testing.T) {
	var r ArchiveRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"manifest": "M9", "branch": "release", "version": "05.03.00.1",
		"date": "9/1/2023", "upload_timestamp": 10, "release_timestamp": 0
	}`), &r))

	v, err := NormalizeArchive("archive", 0, r)
	require.NoError(t, err)
	assert.Equal(t, "M9", v.ManifestID)
	assert.Equal(t, "9/1/2023", v.BuildDate)
	assert.Equal(t, int64(10), v.OrderingKey())

	_, err = NormalizeArchive("archive", 1, ArchiveRecord{})
	assert.True(t, errors.Is(err, oerrors.ErrMalformedRecord))
}

func TestNormalizeBatch(t *testing.T) {
	good := func(id string) RawRecord {
		return decodeRaw(t, `{"id": "`+id+`", "build_info": {"branch": "release-1", "version": "1.0", "build_date": "d"}, "upload_timestamp": 1}`)
	}
	bad := RawRecord{}

	t.Run("skips malformed records", func(t *testing.T) {
		h, err := NormalizeBatch("live", []RawRecord{good("a"), bad, good("b")}, Normalize)
		assert.Equal(t, []string{"a", "b"}, h.IDs())
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrMalformedRecord))

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 1)
	})

	t.Run("all good", func(t *testing.T) {
		h, err := NormalizeBatch("live", []RawRecord{good("a")}, Normalize)
		require.NoError(t, err)
		assert.Len(t, h, 1)
	})

	t.Run("all malformed", func(t *testing.T) {
		h, err := NormalizeBatch("live", []RawRecord{bad, bad}, Normalize)
		assert.Nil(t, h)
		assert.True(t, errors.Is(err, oerrors.ErrMalformedRecord))
	})

	t.Run("empty input", func(t *testing.T) {
		h, err := NormalizeBatch("live", []RawRecord{}, Normalize)
		require.NoError(t, err)
		assert.Empty(t, h)
	})
}
