package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/testutil"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "vutil", root.Use)
	for _, name := range []string{"check", "latest", "query", "game", "engine", "diff", "config", "version"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, root.PersistentFlags().Lookup("timestamps"))
}

func TestQueryCmd(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "all", args: []string{"-o", "ids"}, want: "C\nB\nA\n"},
		{name: "release 05.0", args: []string{"--version", "05.0", "--branch", "release", "-o", "ids"}, want: "B\nA\n"},
		{name: "pbe", args: []string{"-b", "pbe", "-o", "ids"}, want: "C\n"},
		{name: "none", args: []string{"--version", "9.99", "-o", "ids"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"query", "--config", cfgPath}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestQueryCmd_JSON(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	out, err := execute(t, "query", "--config", cfgPath, "-o", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "C", records[0]["manifest"])
	assert.Equal(t, "pbe", records[0]["branch"])
}

func TestQueryCmd_ValidationErrors(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	_, err := execute(t, "query", "--config", cfgPath, "--branch", "beta")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	_, err = execute(t, "query", "--config", cfgPath, "-o", "xml")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestQueryCmd_SourceUnavailable(t *testing.T) {
	srv := newFeedServer(t, 0)
	srv.archive = http.StatusInternalServerError
	cfgPath := writeConfig(t, srv, false, "")

	_, err := execute(t, "query", "--config", cfgPath)

	require.Error(t, err)
	assert.Equal(t, oerrors.ExitSourceUnavailable, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "archive")
}

func TestLatestCmd(t *testing.T) {
	srv := newFeedServer(t, 0)

	t.Run("with patchline", func(t *testing.T) {
		cfgPath := writeConfig(t, srv, true, "")
		out, err := execute(t, "latest", "--config", cfgPath, "-o", "ids")
		require.NoError(t, err)
		assert.Equal(t, "C\n", out)
	})

	t.Run("yaml", func(t *testing.T) {
		cfgPath := writeConfig(t, srv, false, "")
		out, err := execute(t, "latest", "--config", cfgPath, "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "manifest: C")
		assert.Contains(t, out, "version: 05.04.00.300")
	})
}

func TestDiffCmd(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	out, err := execute(t, "diff", "--config", cfgPath, "A", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "version")
	assert.Contains(t, out, "05.03.00.200")

	out, err = execute(t, "diff", "--config", cfgPath, "B", "B")
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", out)

	_, err = execute(t, "diff", "--config", cfgPath, "A", "Z")
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}

func TestEngineCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VUTIL_CONFIG", "")

	out, err := execute(t, "engine", "5.03.00")
	require.NoError(t, err)
	assert.Equal(t, "4.26 (GAME_UE4_26, threshold 5.03)\n", out)

	out, err = execute(t, "engine", "0.01")
	require.NoError(t, err)
	assert.Equal(t, "unknown\n", out)

	out, err = execute(t, "engine", "--list", "-o", "json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "5.03", entries[0]["threshold"])

	_, err = execute(t, "engine", "5.x")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestGameCmd(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")
	exe := writeExecutable(t, "release-05.03\x009/1/2023\x0005.03.00.200\x00")

	out, err := execute(t, "game", "--config", cfgPath, exe, "--lookup", "-o", "json")
	require.NoError(t, err)

	var result gameResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "release", result.Branch)
	assert.Equal(t, "9/1/2023", result.Date)
	assert.Equal(t, "05.03.00.200", result.Version)
	require.NotNil(t, result.Engine)
	assert.Equal(t, "4.26", result.Engine.EngineName)
	assert.Equal(t, []string{"B"}, result.Manifests)
}

func TestGameCmd_Errors(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	_, err := execute(t, "game", "--config", cfgPath, filepath.Join(t.TempDir(), "missing.exe"))
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))

	noMarker := testutil.WriteFile(t, "other.exe", []byte("MZ not a game"))
	_, err = execute(t, "game", "--config", cfgPath, noMarker)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "marker")
}

func TestCheckCmd_StopsOnNewBuild(t *testing.T) {
	srv := newFeedServer(t, 2)
	cfgPath := writeConfig(t, srv, false, "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := executeContext(ctx, t, "check", "--config", cfgPath, "--interval", "10ms")

	require.NoError(t, err)
	assert.Contains(t, out, "new manifest")
	assert.Contains(t, out, "05.04.00.400")
	assert.Equal(t, 1, strings.Count(out, "new manifest"))
}

func TestCheckCmd_InterruptedWithoutChange(t *testing.T) {
	srv := newFeedServer(t, 0)
	cfgPath := writeConfig(t, srv, false, "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out, err := executeContext(ctx, t, "check", "--config", cfgPath, "--interval", "10ms")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vutil:")
	assert.Contains(t, out, "Version:")
}
