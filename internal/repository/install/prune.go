package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
)

// DefaultKeep is the number of versions retained by pruning.
const DefaultKeep = 2

// PruneResult contains information about what was pruned.
type PruneResult struct {
	// Kept lists the retained versions in ascending order.
	Kept []crlset.Version
	// Deleted lists the removed versions in ascending order.
	Deleted []crlset.Version
}

// PruneOldVersions deletes every version directory except the keep most recent.
//
// All deletion targets are checked before anything is removed; if the root or
// any target resolves to a filesystem root, or a target resolves to the root
// itself, nothing is deleted and crlset.ErrUnsafePath is returned.
func (r *Repository) PruneOldVersions(ctx context.Context, keep int) (*PruneResult, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d: %w", keep, crlset.ErrInvalidInput)
	}

	root, err := resolvePath(r.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	if isFilesystemRoot(root) {
		return nil, fmt.Errorf("root %s is a filesystem root: %w", root, crlset.ErrUnsafePath)
	}

	versions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(versions) <= keep {
		return &PruneResult{Kept: versions}, nil
	}

	cut := len(versions) - keep
	stale := versions[:cut]

	targets := make([]string, 0, len(stale))
	for _, version := range stale {
		targets = append(targets, filepath.Join(root, version.String()))
	}

	if err = checkTargets(root, targets); err != nil {
		return nil, err
	}

	result := &PruneResult{
		Kept: versions[cut:],
	}

	for i, target := range targets {
		logger.InfoKV(ctx, "Removing old version", "version", stale[i].String(), "path", target)

		if err = os.RemoveAll(target); err != nil {
			return result, fmt.Errorf("remove %s: %w", target, err)
		}

		result.Deleted = append(result.Deleted, stale[i])
	}

	return result, nil
}

// checkTargets rejects any deletion target that is a filesystem root, the
// root itself, or anything other than a direct child of root.
// Targets are compared after symlinks are resolved, so root must be resolved too.
func checkTargets(root string, targets []string) error {
	for _, target := range targets {
		resolved, err := resolvePath(target)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", target, err)
		}

		switch {
		case isFilesystemRoot(resolved):
			return fmt.Errorf("target %s is a filesystem root: %w", resolved, crlset.ErrUnsafePath)
		case resolved == root:
			return fmt.Errorf("target %s is the root directory: %w", resolved, crlset.ErrUnsafePath)
		case filepath.Dir(resolved) != root:
			return fmt.Errorf("target %s is outside %s: %w", resolved, root, crlset.ErrUnsafePath)
		}
	}

	return nil
}

// resolvePath returns the absolute path with every symlink followed.
func resolvePath(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(absolute)
}

// isFilesystemRoot reports whether path is "/" or a volume root such as `C:\`.
func isFilesystemRoot(path string) bool {
	cleaned := filepath.Clean(path)

	return filepath.Dir(cleaned) == cleaned
}
