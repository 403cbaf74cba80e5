package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
)

// Repository is a root directory holding one subdirectory per installed version.
// It assumes a single writer; concurrent runs against one root are not coordinated.
type Repository struct {
	// root is the directory that holds version directories.
	root string
}

// NewRepository creates a repository rooted at root.
func NewRepository(root string) *Repository {
	return &Repository{
		root: filepath.Clean(root),
	}
}

// Root returns the repository root directory.
func (r *Repository) Root() string {
	return r.root
}

// PathOf returns the directory a version is installed into.
func (r *Repository) PathOf(version crlset.Version) string {
	return filepath.Join(r.root, version.String())
}

// IsInstalled reports whether a directory named exactly after version exists.
// Its contents are never inspected: extraction only ever produces complete directories.
func (r *Repository) IsInstalled(_ context.Context, version crlset.Version) (bool, error) {
	info, err := os.Stat(r.PathOf(version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("stat version directory: %w", err)
	}

	return info.IsDir(), nil
}

// List returns installed versions in ascending order.
// Entries that are not directories or whose names are not versions are ignored.
func (r *Repository) List(ctx context.Context) ([]crlset.Version, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.root, err)
	}

	versions := make([]crlset.Version, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		version, err := crlset.ParseVersion(entry.Name())
		if err != nil {
			logger.DebugKV(ctx, "Ignoring non-version directory", "name", entry.Name())
			continue
		}

		versions = append(versions, version)
	}

	crlset.SortVersions(versions)

	return versions, nil
}
