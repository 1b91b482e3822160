package lockfile

import "go.trai.ch/wam/internal/core/domain"

// lockDocument is the on-disk layout of wam-lock.toml.
type lockDocument struct {
	Addons []lockEntry `toml:"addons"`
}

type lockEntry struct {
	Name      string `toml:"name"`
	Resolved  string `toml:"resolved"`
	Version   string `toml:"version"`
	Timestamp uint64 `toml:"timestamp"`
}

func fromDomain(store *domain.LockStore) lockDocument {
	entries := store.Entries()
	doc := lockDocument{Addons: make([]lockEntry, len(entries))}
	for i, e := range entries {
		doc.Addons[i] = lockEntry{
			Name:      e.Key,
			Resolved:  e.ResolvedID,
			Version:   e.Version,
			Timestamp: e.PublishedAt,
		}
	}
	return doc
}

func (d lockDocument) toDomain() *domain.LockStore {
	locks := make([]domain.ResolvedLock, len(d.Addons))
	for i, e := range d.Addons {
		locks[i] = domain.ResolvedLock{
			Key:         e.Name,
			ResolvedID:  e.Resolved,
			Version:     e.Version,
			PublishedAt: e.Timestamp,
		}
	}
	return domain.NewLockStore(locks)
}
