package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

const patchlineKey = "keystone.products.valorant.patchlines.live"

func patchlineBody(url string) string {
	return `{
  "keystone.products.valorant.patchlines.live": {
    "platforms": {
      "win": {
        "configurations": [
          {"id": "eu", "patch_url": "https://cdn.example.com/channels/public/releases/EU000.manifest"},
          {"id": "na", "patch_url": "` + url + `"}
        ]
      }
    }
  }
}`
}

func newPatchline(body string) *PatchlineSource {
	return &PatchlineSource{
		ID:            Patchline,
		Fetcher:       staticFetcher{bodies: map[string]string{Patchline: body}},
		Key:           patchlineKey,
		Platform:      "win",
		Configuration: "na",
	}
}

func TestExtractManifestID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"full url", "https://cdn.example.com/channels/public/releases/ABCDEF0123456789.manifest", "ABCDEF0123456789"},
		{"query after suffix", "https://cdn.example.com/releases/ABC.manifest?sig=1", "ABC"},
		{"bare file", "ABC.manifest", "ABC"},
		{"no suffix", "https://cdn.example.com/releases/ABC", "ABC"},
		{"empty segment keeps parent out", "https://cdn.example.com/releases/.manifest", ""},
		{"empty segment at host", "https://cdn.example.com/.manifest", ""},
		{"trailing slash", "https://cdn.example.com/releases/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractManifestID(tt.url))
		})
	}
}

func TestPatchlineSource_LiveManifestID(t *testing.T) {
	src := newPatchline(patchlineBody("https://cdn.example.com/channels/public/releases/NA123.manifest"))

	id, err := src.LiveManifestID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "NA123", id)
}

func TestPatchlineSource_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		mod   func(*PatchlineSource)
		field string
	}{
		{name: "missing key", body: `{}`, field: patchlineKey},
		{name: "missing platform", body: patchlineBody("x.manifest"), mod: func(s *PatchlineSource) { s.Platform = "mac" }, field: "platforms.mac"},
		{name: "missing configuration", body: patchlineBody("x.manifest"), mod: func(s *PatchlineSource) { s.Configuration = "ap" }, field: "configurations[id=ap]"},
		{name: "empty patch url", body: patchlineBody(""), field: "patch_url"},
		{name: "empty manifest segment", body: patchlineBody("https://cdn.example.com/releases/.manifest"), field: "patch_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newPatchline(tt.body)
			if tt.mod != nil {
				tt.mod(src)
			}

			_, err := src.LiveManifestID(context.Background())

			var merr *oerrors.MalformedRecordError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.field, merr.Field)
			assert.Equal(t, Patchline, merr.Source)
		})
	}
}
