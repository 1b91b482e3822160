package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wam/internal/adapters/lockfile"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sampleLock = `[[addons]]
name = "curse/weakauras"
resolved = "weakauras"
version = "2.0.1"
timestamp = 1000

[[addons]]
name = "tukui/addonx"
resolved = "42"
version = "3.1.4"
timestamp = 1551796200
`

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	store, err := lockfile.New(nil).Load(filepath.Join(t.TempDir(), domain.LockFileName))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, os.WriteFile(path, []byte(sampleLock), domain.FilePerm))

	store, err := lockfile.New(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.ResolvedLock{
		{Key: "curse/weakauras", ResolvedID: "weakauras", Version: "2.0.1", PublishedAt: 1000},
		{Key: "tukui/addonx", ResolvedID: "42", Version: "3.1.4", PublishedAt: 1551796200},
	}, store.Entries())
}

func TestStore_LoadWarnsOnDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("duplicate lock entry curse/weakauras in wam-lock.toml ignored")

	path := filepath.Join(t.TempDir(), domain.LockFileName)
	dup := sampleLock + `
[[addons]]
name = "curse/weakauras"
resolved = "weakauras"
version = "1.0.0"
timestamp = 500
`
	require.NoError(t, os.WriteFile(path, []byte(dup), domain.FilePerm))

	store, err := lockfile.New(log).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	first, ok := store.Get("curse/weakauras")
	require.True(t, ok)
	assert.Equal(t, "2.0.1", first.Version)
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, os.WriteFile(path, []byte("addons = [ {name = "), domain.FilePerm))

	_, err := lockfile.New(nil).Load(path)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), domain.ErrLockParseFailed.Error())
}

func TestStore_LoadUnreadable(t *testing.T) {
	// A directory in place of the file cannot be read.
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, os.Mkdir(path, domain.DirPerm))

	_, err := lockfile.New(nil).Load(path)
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), domain.ErrLockReadFailed.Error())
}

func TestStore_SaveRoundTripKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.LockFileName)
	s := lockfile.New(nil)

	previous := domain.NewLockStore([]domain.ResolvedLock{
		{Key: "curse/a", ResolvedID: "a", Version: "1", PublishedAt: 10},
		{Key: "curse/b", ResolvedID: "b", Version: "1", PublishedAt: 10},
	})
	merged := previous.Merge([]domain.ResolvedLock{
		{Key: "curse/a", ResolvedID: "a", Version: "2", PublishedAt: 20},
		{Key: "ace/c", ResolvedID: "c", Version: "1", PublishedAt: 5},
	})

	require.NoError(t, s.Save(path, merged))

	loaded, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, merged.Entries(), loaded.Entries())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.FilePerm), info.Mode().Perm())
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, os.WriteFile(path, []byte(sampleLock), domain.FilePerm))
	s := lockfile.New(nil)

	require.NoError(t, s.Save(path, domain.NewLockStore(nil)))

	loaded, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_SaveFailureIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", domain.LockFileName)

	err := lockfile.New(nil).Save(path, domain.NewLockStore(nil))
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), domain.ErrLockWriteFailed.Error())
}
