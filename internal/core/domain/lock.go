package domain

import "time"

// ResolvedLock is a resolved, timestamped version record for one addon.
type ResolvedLock struct {
	// Key is "{provider}/{name}".
	Key string
	// ResolvedID is the provider-internal identifier used to build a download request.
	ResolvedID string
	// Version is the display label. It is never compared.
	Version string
	// PublishedAt is the publish time in epoch seconds and the only field used for staleness.
	PublishedAt uint64
}

// PublishedTime returns PublishedAt as a UTC time.
func (l ResolvedLock) PublishedTime() time.Time {
	//nolint:gosec // epoch seconds fit in int64 for any realistic timestamp
	return time.Unix(int64(l.PublishedAt), 0).UTC()
}

// LockStore is an ordered collection of resolved locks with unique keys.
// A LockStore is never mutated after construction; Merge returns a new store.
type LockStore struct {
	entries []ResolvedLock
	index   map[string]int
}

// NewLockStore builds a store from persisted entries.
// When keys repeat, the first entry wins.
func NewLockStore(entries []ResolvedLock) *LockStore {
	s := &LockStore{
		entries: make([]ResolvedLock, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := s.index[e.Key]; dup {
			continue
		}
		s.index[e.Key] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Get returns the entry stored under key.
func (s *LockStore) Get(key string) (ResolvedLock, bool) {
	if s == nil {
		return ResolvedLock{}, false
	}
	i, ok := s.index[key]
	if !ok {
		return ResolvedLock{}, false
	}
	return s.entries[i], true
}

// Len returns the number of entries.
func (s *LockStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the entries in persisted order.
func (s *LockStore) Entries() []ResolvedLock {
	if s == nil {
		return nil
	}
	out := make([]ResolvedLock, len(s.entries))
	copy(out, s.entries)
	return out
}

// Merge returns a new store with updates applied. An update whose key already
// exists replaces that entry in place; any other update is appended.
// Entries not named by an update are carried over unchanged.
func (s *LockStore) Merge(updates []ResolvedLock) *LockStore {
	merged := NewLockStore(s.Entries())
	for _, u := range updates {
		if i, ok := merged.index[u.Key]; ok {
			merged.entries[i] = u
			continue
		}
		merged.index[u.Key] = len(merged.entries)
		merged.entries = append(merged.entries, u)
	}
	return merged
}

// IsStale reports whether fresh should be downloaded given the previous store.
// An addon with no prior entry is always stale. Otherwise the prior entry must
// be strictly older; equal timestamps count as current.
func IsStale(fresh ResolvedLock, previous *LockStore) bool {
	prior, ok := previous.Get(fresh.Key)
	if !ok {
		return true
	}
	return prior.PublishedAt < fresh.PublishedAt
}
