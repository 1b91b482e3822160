package ports

import "go.trai.ch/wam/internal/core/domain"

// LockFile loads and persists the lock store.
//
//go:generate mockgen -source=lock_file.go -destination=mocks/mock_lock_file.go -package=mocks
type LockFile interface {
	// Load reads the store at path. A missing file yields an empty store.
	Load(path string) (*domain.LockStore, error)

	// Save replaces the file at path with store. Readers never observe a partial write.
	Save(path string, store *domain.LockStore) error
}
