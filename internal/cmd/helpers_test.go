package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NotToDisturb/VersionUtils/internal/testutil"
)

const archiveFeed = `[
  {"manifest": "B", "branch": "release-05.03", "version": "05.03.00.200", "date": "Aug 2 2022", "upload_timestamp": 190, "release_timestamp": 200},
  {"manifest": "A", "branch": "release-05.02", "version": "05.02.00.100", "date": "Jul 2 2022", "upload_timestamp": 90, "release_timestamp": 100}
]`

const liveFeed = `[
  {"id": "C", "build_info": {"branch": "pbe", "version": "05.04.00.300", "build_date": "Aug 9 2022"}, "upload_timestamp": 300, "release_timestamp": 0},
  {"id": "B", "build_info": {"branch": "release-05.03", "version": "05.03.00.200", "build_date": "Aug 2 2022"}, "upload_timestamp": 190, "release_timestamp": 200}
]`

const liveFeedWithD = `[
  {"id": "D", "build_info": {"branch": "release-05.04", "version": "05.04.00.400", "build_date": "Aug 16 2022"}, "upload_timestamp": 390, "release_timestamp": 400},
  {"id": "C", "build_info": {"branch": "pbe", "version": "05.04.00.300", "build_date": "Aug 9 2022"}, "upload_timestamp": 300, "release_timestamp": 0},
  {"id": "B", "build_info": {"branch": "release-05.03", "version": "05.03.00.200", "build_date": "Aug 2 2022"}, "upload_timestamp": 190, "release_timestamp": 200}
]`

const patchlineFeed = `{
  "keystone.products.valorant.patchlines.live": {
    "platforms": {"win": {"configurations": [{"id": "na", "patch_url": "https://cdn.example.com/releases/B.manifest"}]}}
  }
}`

// feedServer serves the three feeds. liveAfter switches the live feed to
// liveFeedWithD once that many live requests have been served; 0 never
// switches.
type feedServer struct {
	*httptest.Server
	liveCalls atomic.Int32
	archive   int // status override for the archive feed
}

func newFeedServer(t *testing.T, liveAfter int32) *feedServer {
	t.Helper()
	fs := &feedServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/archive.json", func(w http.ResponseWriter, r *http.Request) {
		if fs.archive != 0 {
			w.WriteHeader(fs.archive)
			return
		}
		fmt.Fprint(w, archiveFeed)
	})
	mux.HandleFunc("/live.json", func(w http.ResponseWriter, r *http.Request) {
		n := fs.liveCalls.Add(1)
		if liveAfter > 0 && n > liveAfter {
			fmt.Fprint(w, liveFeedWithD)
			return
		}
		fmt.Fprint(w, liveFeed)
	})
	mux.HandleFunc("/patchline.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, patchlineFeed)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

// writeConfig writes a config file pointing at srv and returns its path.
func writeConfig(t *testing.T, srv *feedServer, patchline bool, extra string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VUTIL_CONFIG", "")

	patchURL := ""
	if patchline {
		patchURL = srv.URL + "/patchline.json"
	}
	content := fmt.Sprintf(`sources:
  archive: %s/archive.json
  live: %s/live.json
  patchline: %q
http:
  timeout: 2s
  retries: 1
  rateLimit: 1000
log:
  timestamps: false
%s`, srv.URL, srv.URL, patchURL, extra)

	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), t, args...)
}

func executeContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), err
}

// writeExecutable writes a fake executable carrying table after the
// default marker.
func writeExecutable(t *testing.T, table string) string {
	t.Helper()
	return testutil.WriteExecutable(t, "++Ares-Core+", table)
}
