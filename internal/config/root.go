package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

// RootDirName is the required final path segment of the root directory.
const RootDirName = "CertificateRevocation"

// ValidateRoot expands a leading "~", trims trailing separators and checks
// that the result is an existing directory named RootDirName.
// It returns the cleaned absolute path. A root that resolves to a filesystem
// root through symlinks wraps crlset.ErrUnsafePath, all other failures wrap
// crlset.ErrInvalidInput.
func ValidateRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("root path must be provided: %w", crlset.ErrInvalidInput)
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w: %w", path, crlset.ErrInvalidInput, err)
	}

	absolute, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w: %w", path, crlset.ErrInvalidInput, err)
	}

	if filepath.Base(absolute) != RootDirName {
		return "", fmt.Errorf("%s: last path segment must be %q: %w", absolute, RootDirName, crlset.ErrInvalidInput)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", absolute, crlset.ErrInvalidInput, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", absolute, crlset.ErrInvalidInput)
	}

	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", absolute, crlset.ErrInvalidInput, err)
	}

	if filepath.Dir(resolved) == resolved {
		return "", fmt.Errorf("%s resolves to filesystem root %s: %w", absolute, resolved, crlset.ErrUnsafePath)
	}

	return absolute, nil
}

// expandHome replaces a leading "~" with the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
