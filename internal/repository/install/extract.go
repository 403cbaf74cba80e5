package install

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
)

const (
	// DirectoryMode is applied to version directories and their subdirectories.
	DirectoryMode os.FileMode = 0o755

	// FileMode is applied to extracted files.
	FileMode os.FileMode = 0o644
)

var (
	errUnsafeEntry  = errors.New("entry escapes the target directory")
	errSymlinkEntry = errors.New("symbolic links are not supported")
)

// Extract unpacks a zip archive into the directory for version.
//
// The archive is unpacked into a hidden staging directory next to the final
// one and renamed into place only after every entry was written, so an
// interrupted run never leaves a directory that IsInstalled would accept.
// It fails with crlset.ErrAlreadyExists if the version directory exists and
// with crlset.ErrArchive if the archive cannot be unpacked.
func (r *Repository) Extract(ctx context.Context, archive []byte, version crlset.Version) (string, error) {
	target := r.PathOf(version)

	if err := r.ensureAbsent(ctx, target); err != nil {
		return "", err
	}

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w: %w", crlset.ErrArchive, err)
	}

	// The dot prefix keeps staging directories out of List and IsInstalled.
	staging, err := os.MkdirTemp(r.root, "."+version.String()+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	committed := false

	defer func() {
		if committed {
			return
		}

		if removeErr := os.RemoveAll(staging); removeErr != nil {
			logger.WarnKV(ctx, "Could not remove staging directory", "path", staging, "error", removeErr)
		}
	}()

	for _, file := range reader.File {
		if err = ctx.Err(); err != nil {
			return "", fmt.Errorf("extraction interrupted: %w: %w", crlset.ErrArchive, err)
		}

		if err = extractEntry(staging, file); err != nil {
			return "", fmt.Errorf("extract %q: %w: %w", file.Name, crlset.ErrArchive, err)
		}
	}

	logger.DebugKV(ctx, "Archive unpacked", "entries", len(reader.File), "staging", staging)

	if err = os.Chmod(staging, DirectoryMode); err != nil {
		return "", fmt.Errorf("chmod staging directory: %w", err)
	}

	// Rename replaces an empty directory on some platforms, so check again first.
	if err = r.ensureAbsent(ctx, target); err != nil {
		return "", err
	}

	if err = os.Rename(staging, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s: %w", target, crlset.ErrAlreadyExists)
		}

		return "", fmt.Errorf("move staging directory into place: %w", err)
	}

	committed = true

	return target, nil
}

// ensureAbsent fails with crlset.ErrAlreadyExists if target exists in any form.
func (r *Repository) ensureAbsent(ctx context.Context, target string) error {
	_, err := os.Lstat(target)
	if err == nil {
		logger.WarnKV(ctx, "Version directory already exists at extraction time, "+
			"another run may be using the same root", "path", target)

		return fmt.Errorf("%s: %w", target, crlset.ErrAlreadyExists)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	return nil
}

// extractEntry writes one archive entry below dir, keeping its relative path.
func extractEntry(dir string, file *zip.File) error {
	name := filepath.FromSlash(file.Name)
	if !filepath.IsLocal(name) {
		return errUnsafeEntry
	}

	path := filepath.Join(dir, name)
	mode := file.Mode()

	switch {
	case mode&fs.ModeSymlink != 0:
		return errSymlinkEntry
	case mode.IsDir():
		return os.MkdirAll(path, DirectoryMode)
	}

	if err := os.MkdirAll(filepath.Dir(path), DirectoryMode); err != nil {
		return err
	}

	source, err := file.Open()
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	output, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, FileMode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(output, source); err != nil {
		_ = output.Close()

		return err
	}

	return output.Close()
}
