package cmdutil

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NotToDisturb/VersionUtils/internal/config"
	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

func TestOutputFlags(t *testing.T) {
	var f OutputFlags
	c := &cobra.Command{Use: "x"}
	f.AddTo(c)

	format, err := f.Parse()
	require.NoError(t, err)
	assert.Equal(t, output.FormatTable, format, "default")

	require.NoError(t, c.Flags().Set("output", "ids"))
	format, err = f.Parse()
	require.NoError(t, err)
	assert.Equal(t, output.FormatIDs, format)

	require.NoError(t, c.Flags().Set("output", "xml"))
	_, err = f.Parse()
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestFilterFlags(t *testing.T) {
	var f FilterFlags
	c := &cobra.Command{Use: "x"}
	f.AddTo(c)

	require.NoError(t, c.Flags().Parse([]string{"--version", "05.03", "-b", "pbe"}))
	filter := f.Filter()
	assert.Equal(t, "05.03", filter.Version)
	assert.Equal(t, "pbe", filter.Branch)
}

func TestNewResolver(t *testing.T) {
	cfg := config.DefaultConfig()
	f := NewFetcher(cfg)

	r := NewResolver(cfg, f)
	require.NotNil(t, r.Patchline)
	assert.Equal(t, config.DefaultPatchlineKey, r.Patchline.Key)
	assert.Equal(t, "win", r.Patchline.Platform)

	cfg.Sources.Patchline = ""
	r = NewResolver(cfg, NewFetcher(cfg))
	assert.Nil(t, r.Patchline)
	assert.NotNil(t, r.Primary)
	assert.NotNil(t, r.Supplementary)
}

func TestBinaryLayout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Binary.Window = 128
	cfg.Binary.PBEVersionIndex = 4

	layout := BinaryLayout(cfg)
	assert.Equal(t, "++Ares-Core+", layout.Marker)
	assert.Equal(t, 128, layout.Window)
	assert.Equal(t, 4, layout.PBEVersionIndex)
	assert.NoError(t, layout.Validate())
}

func TestEngineTable_Default(t *testing.T) {
	table, err := EngineTable(config.DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, table.Entries(), 3)
}

func TestFail(t *testing.T) {
	err := Fail("loading", oerrors.NewNotFoundError("gone", "/x", ""))

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.True(t, exitErr.Printed)
	assert.Equal(t, oerrors.ExitNotFound, exitErr.Code)

	again := Fail("outer", err)
	assert.Same(t, err, again, "already printed errors pass through")
}
