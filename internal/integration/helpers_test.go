package integration

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crlset-mirror/cmd/crlset-mirror/cmd"
	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

// upstream imitates the update service: one update-check endpoint and one package.
type upstream struct {
	url       string
	checks    atomic.Int32
	downloads atomic.Int32
}

// startUpstream serves version and pkg until the test ends.
func startUpstream(t *testing.T, version string, pkg []byte) *upstream {
	t.Helper()

	up := new(upstream)

	mux := http.NewServeMux()
	mux.HandleFunc("/service/update2/crx", func(w http.ResponseWriter, r *http.Request) {
		up.checks.Add(1)

		if r.URL.Query().Get("tag") != config.DefaultTag {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		_, _ = fmt.Fprintf(w,
			`<gupdate xmlns="%s"><app appid="%s" status="ok">`+
				`<updatecheck codebase="http://%s/download/crl-set.crx3" status="ok" version="%s"/>`+
				`</app></gupdate>`,
			config.DefaultNamespace, config.DefaultAppID, r.Host, version)
	})
	mux.HandleFunc("/download/crl-set.crx3", func(w http.ResponseWriter, _ *http.Request) {
		up.downloads.Add(1)
		_, _ = w.Write(pkg)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	up.url = ts.URL + "/service/update2/crx"

	return up
}

// writeSettings stores a settings file pointing the descriptor at up.
func writeSettings(t *testing.T, up *upstream) string {
	t.Helper()

	settings := config.Default()
	settings.Descriptor.UpdateURL = up.url

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, settings))

	return path
}

// crlsetPackage builds a container: magic, 12 header bytes, zip archive.
func crlsetPackage(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer

	buffer.WriteString("Cr24")
	buffer.WriteString("\x03\x00\x00\x00\x45\x02\x00\x00\x12\x34\x56\x78")

	writer := zip.NewWriter(&buffer)

	for name, contents := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write([]byte(contents))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

// certificateRevocationDir creates an empty, correctly named root directory.
func certificateRevocationDir(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "chromium", config.RootDirName)
	require.NoError(t, os.MkdirAll(root, 0o755))

	return root
}

// execute runs the CLI and returns stdout and the exit code Execute would use.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := cmd.NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), crlset.ExitCode(err)
}

// listDir returns the names directly under dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
