// Package archive implements the Extractor port for zip archives.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extractor unpacks zip archives below a target directory.
type Extractor struct{}

// New creates a zip extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract unpacks archivePath into dest, which must exist.
// Every entry is checked before anything is written, so an archive with an
// escaping entry leaves dest untouched.
func (e *Extractor) Extract(ctx context.Context, archivePath, dest string) error {
	// Insecure names are reported below with the offending entry.
	r, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "archive", archivePath))
	}
	defer func() {
		_ = r.Close()
	}()

	names := make([]string, len(r.File))
	for i, f := range r.File {
		name, err := entryName(f.Name)
		if err != nil {
			return zerr.With(err, "archive", archivePath)
		}
		names[i] = name
	}

	root, err := os.OpenRoot(dest)
	if err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "dest", dest))
	}
	defer func() {
		_ = root.Close()
	}()

	for i, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractEntry(root, f, names[i]); err != nil {
			return domain.StorageError(zerr.With(zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "entry", f.Name), "archive", archivePath))
		}
	}
	return nil
}

// entryName converts a zip entry name into a local relative path.
func entryName(raw string) (string, error) {
	name := strings.TrimSuffix(strings.ReplaceAll(raw, `\`, "/"), "/")
	if name == "" || path.IsAbs(name) || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", domain.StorageError(zerr.With(domain.ErrPathEscapes, "entry", raw))
	}
	return filepath.FromSlash(path.Clean(name)), nil
}

func extractEntry(root *os.Root, f *zip.File, name string) error {
	mode := f.Mode()

	if mode.IsDir() {
		if err := root.MkdirAll(name, domain.DirPerm); err != nil {
			return err
		}
		if perm := mode.Perm(); perm != 0 {
			return root.Chmod(name, perm|0o700)
		}
		return nil
	}

	// Symlinks and special files are skipped; addons ship plain files only.
	if !mode.IsRegular() {
		return nil
	}

	if dir := filepath.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, domain.DirPerm); err != nil {
			return err
		}
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = domain.FilePerm
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec // archive size is bounded at download
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	// OpenFile applies the umask and leaves existing files untouched.
	return root.Chmod(name, perm)
}

