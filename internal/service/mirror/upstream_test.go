package mirror

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

	"github.com/oshokin/crlset-mirror/internal/config"
)

// fakeUpstream serves an update-check document and a package, counting requests.
type fakeUpstream struct {
	server *httptest.Server
	mux    *http.ServeMux
	// version is advertised by the update-check endpoint.
	version string
	// pkg is served from the codebase URL.
	pkg []byte
	// checkStatus overrides the update-check HTTP status when non-zero.
	checkStatus atomic.Int32

	checks    atomic.Int32
	downloads atomic.Int32
}

func newFakeUpstream(t *testing.T, version string, pkg []byte) *fakeUpstream {
	t.Helper()

	up := &fakeUpstream{
		version: version,
		pkg:     pkg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/service/update2/crx", func(w http.ResponseWriter, r *http.Request) {
		up.checks.Add(1)

		if status := up.checkStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			return
		}

		_, _ = fmt.Fprintf(w,
			`<?xml version="1.0"?><gupdate xmlns="%s" protocol="2.0">`+
				`<app appid="%s" status="ok"><updatecheck codebase="http://%s/crl-set.crx3" status="ok" version="%s"/></app>`+
				`</gupdate>`,
			config.DefaultNamespace, config.DefaultAppID, r.Host, up.version)
	})
	mux.HandleFunc("/crl-set.crx3", func(w http.ResponseWriter, _ *http.Request) {
		up.downloads.Add(1)
		_, _ = w.Write(up.pkg)
	})

	up.mux = mux
	up.server = httptest.NewServer(mux)
	t.Cleanup(up.server.Close)

	return up
}

// options returns run options pointing at the fake upstream and root.
func (up *fakeUpstream) options(root string) *Options {
	cfg := config.Default()
	cfg.Path = root
	cfg.Descriptor.UpdateURL = up.server.URL + "/service/update2/crx"

	return &Options{Config: cfg}
}

// buildPackage wraps a zip of files in a container with a 16-byte header.
func buildPackage(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer

	buffer.WriteString(config.DefaultMagic)
	buffer.Write([]byte{3, 0, 0, 0, 0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4})

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

// newRoot creates an empty CertificateRevocation directory.
func newRoot(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), config.RootDirName)
	require.NoError(t, os.Mkdir(root, 0o755))

	return root
}

// entryNames lists the names directly under root.
func entryNames(t *testing.T, root string) []string {
	t.Helper()

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
