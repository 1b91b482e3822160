// Package lockfile persists the lock store as TOML.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.LockFile.
type Store struct {
	Logger ports.Logger
}

// New creates a lock file store. Duplicate entries found on load are reported to logger.
func New(logger ports.Logger) *Store {
	return &Store{Logger: logger}
}

// Load reads the lock store at path. A missing file yields an empty store.
func (s *Store) Load(path string) (*domain.LockStore, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the config root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLockStore(nil), nil
		}
		return nil, domain.ConfigError(zerr.With(zerr.Wrap(err, domain.ErrLockReadFailed.Error()), "path", path))
	}

	var doc lockDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, domain.ConfigError(zerr.With(zerr.Wrap(err, domain.ErrLockParseFailed.Error()), "path", path))
	}
	s.warnDuplicates(doc, path)
	return doc.toDomain(), nil
}

// warnDuplicates reports entries that NewLockStore will drop. The next save
// removes them from disk.
func (s *Store) warnDuplicates(doc lockDocument, path string) {
	if s.Logger == nil {
		return
	}
	seen := make(map[string]bool, len(doc.Addons))
	for _, e := range doc.Addons {
		if seen[e.Name] {
			s.Logger.Warn(fmt.Sprintf("duplicate lock entry %s in %s ignored", e.Name, filepath.Base(path)))
			continue
		}
		seen[e.Name] = true
	}
}

// Save atomically replaces the file at path with store.
func (s *Store) Save(path string, store *domain.LockStore) error {
	data, err := toml.Marshal(fromDomain(store))
	if err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrLockWriteFailed.Error()), "path", path))
	}

	if err := atomicWriteFile(path, data); err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrLockWriteFailed.Error()), "path", path))
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".wam-lock-*.toml")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
