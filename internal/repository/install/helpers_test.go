package install

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

// buildArchive returns a zip archive holding files; names ending in "/" become directories.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer

	writer := zip.NewWriter(&buffer)

	for name, contents := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		if contents != "" {
			_, err = entry.Write([]byte(contents))
			require.NoError(t, err)
		}
	}

	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

// makeVersionDirs creates one directory per name under root.
func makeVersionDirs(t *testing.T, root string, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, "inner"), 0o755))
	}
}

// versionNames converts versions to their string form.
func versionNames(versions []crlset.Version) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, v.String())
	}

	return names
}

// dirNames lists the names of every entry directly under root.
func dirNames(t *testing.T, root string) []string {
	t.Helper()

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
