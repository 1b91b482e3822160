package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wam/internal/app"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/wam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader    *mocks.MockConfigLoader
	lockFile  *mocks.MockLockFile
	fetcher   *mocks.MockFetcher
	curse     *mocks.MockProvider
	extractor *mocks.MockExtractor
	logger    *mocks.MockLogger
}

type appFixture struct {
	app    *app.App
	mocks  appTestMocks
	root   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func setupAppTest(t *testing.T) appFixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		lockFile:  mocks.NewMockLockFile(ctrl),
		fetcher:   mocks.NewMockFetcher(ctrl),
		curse:     mocks.NewMockProvider(ctrl),
		extractor: mocks.NewMockExtractor(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	m.curse.EXPECT().Kind().Return(domain.ProviderCurse).AnyTimes()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := app.New(m.loader, m.lockFile, m.fetcher, ports.NewProviders(m.curse), m.extractor, m.logger).
		WithOutput(stdout, stderr)

	return appFixture{app: a, mocks: m, root: t.TempDir(), stdout: stdout, stderr: stderr}
}

func (f appFixture) config(t *testing.T, mode string, names ...string) *domain.Config {
	t.Helper()
	cfg := &domain.Config{
		Parallel:   2,
		Timeout:    10 * time.Second,
		InstallDir: filepath.Join(f.root, "Interface", "Addons"),
		OutputMode: mode,
		Root:       f.root,
	}
	for _, name := range names {
		req, err := domain.NewAddonRequest(name, "curse")
		require.NoError(t, err)
		cfg.Addons = append(cfg.Addons, req)
	}
	return cfg
}

func (f appFixture) lockPath() string {
	return filepath.Join(f.root, domain.LockFileName)
}

// expectDownload makes curse/name resolve to epoch and install successfully.
func (f appFixture) expectDownload(name string, epoch uint64) {
	f.mocks.curse.EXPECT().
		Resolve(gomock.Any(), domain.AddonRequest{Name: name, Provider: domain.ProviderCurse}, gomock.Any(), gomock.Any()).
		Return(domain.ResolvedLock{ResolvedID: name, Version: "1.0", PublishedAt: epoch}, nil)
	f.mocks.curse.EXPECT().
		Fetch(gomock.Any(), domain.AddonRequest{Name: name, Provider: domain.ProviderCurse}, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.AddonRequest, lock domain.ResolvedLock, dir string, _ ports.Progress) (domain.DownloadedArchive, error) {
			path := filepath.Join(dir, name+".zip")
			if err := os.WriteFile(path, []byte("zip"), domain.FilePerm); err != nil {
				return domain.DownloadedArchive{}, err
			}
			return domain.DownloadedArchive{Path: path, Lock: lock}, nil
		})
	f.mocks.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), filepath.Join(f.root, "Interface", "Addons")).Return(nil)
}

func TestApp_Install_FirstSync(t *testing.T) {
	f := setupAppTest(t)
	cfg := f.config(t, "linear", "weakauras")

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{Parallel: 2}).Return(cfg, nil)
	f.mocks.fetcher.EXPECT().SetTimeout(10 * time.Second)
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)
	f.expectDownload("weakauras", 1000)

	var saved *domain.LockStore
	f.mocks.lockFile.EXPECT().Save(f.lockPath(), gomock.Any()).
		DoAndReturn(func(_ string, store *domain.LockStore) error {
			saved = store
			return nil
		})

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root, Overrides: domain.Overrides{Parallel: 2}})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, []domain.ResolvedLock{{
		Key: "curse/weakauras", ResolvedID: "weakauras", Version: "1.0", PublishedAt: 1000,
	}}, saved.Entries())

	assert.DirExists(t, cfg.InstallDir)
	assert.NoDirExists(t, filepath.Join(f.root, domain.ScratchDirName))
	assert.Contains(t, f.stdout.String(), "1 updated, 0 up to date, 0 failed")
	assert.Contains(t, f.stderr.String(), "==> resolve: 1 addon(s)")
	assert.Contains(t, f.stderr.String(), "==> fetch: 1 addon(s)")
}

func TestApp_Install_UpToDateSkipsSave(t *testing.T) {
	f := setupAppTest(t)
	cfg := f.config(t, "linear", "weakauras")
	prior := domain.ResolvedLock{Key: "curse/weakauras", ResolvedID: "weakauras", Version: "1.0", PublishedAt: 1000}

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(cfg, nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore([]domain.ResolvedLock{prior}), nil)
	f.mocks.curse.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ResolvedLock{ResolvedID: "weakauras", Version: "1.0", PublishedAt: 1000}, nil)

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.NoError(t, err)
	assert.Contains(t, f.stdout.String(), "0 updated, 1 up to date, 0 failed")
}

func TestApp_Install_PartialFailureStillPersists(t *testing.T) {
	f := setupAppTest(t)
	cfg := f.config(t, "linear", "broken", "healthy")

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(cfg, nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)
	f.mocks.curse.EXPECT().
		Resolve(gomock.Any(), domain.AddonRequest{Name: "broken", Provider: domain.ProviderCurse}, gomock.Any(), gomock.Any()).
		Return(domain.ResolvedLock{}, domain.ParseError(domain.ErrElementNotFound))
	f.expectDownload("healthy", 5)
	f.mocks.lockFile.EXPECT().Save(f.lockPath(), gomock.Any()).
		DoAndReturn(func(_ string, store *domain.LockStore) error {
			assert.Equal(t, 1, store.Len())
			_, ok := store.Get("curse/healthy")
			assert.True(t, ok)
			return nil
		})

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.NoError(t, err)

	out := f.stdout.String()
	assert.Contains(t, out, "curse/broken")
	assert.Contains(t, out, "expected page element not found [parse]")
	assert.Contains(t, out, "1 updated, 0 up to date, 1 failed")
}

func TestApp_Install_SaveFailureIsFatal(t *testing.T) {
	f := setupAppTest(t)
	cfg := f.config(t, "linear", "weakauras")

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(cfg, nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)
	f.expectDownload("weakauras", 1)
	f.mocks.lockFile.EXPECT().Save(f.lockPath(), gomock.Any()).
		Return(domain.StorageError(domain.ErrLockWriteFailed))

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.ErrorIs(t, err, domain.ErrSyncFailed)
	require.ErrorIs(t, err, domain.ErrStorage)
	require.ErrorIs(t, err, domain.ErrLockWriteFailed)

	out := f.stdout.String()
	assert.Contains(t, out, "curse/weakauras")
	assert.Contains(t, out, "1 updated, 0 up to date, 0 failed")
}

func TestApp_Install_ConfigErrorIsFatal(t *testing.T) {
	f := setupAppTest(t)
	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).
		Return(nil, domain.ConfigError(domain.ErrUnknownProvider))

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.ErrorIs(t, err, domain.ErrConfig)
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Empty(t, f.stdout.String())
}

func TestApp_Install_LockLoadError(t *testing.T) {
	f := setupAppTest(t)
	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(f.config(t, "linear"), nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(nil, domain.ConfigError(domain.ErrLockParseFailed))

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.ErrorIs(t, err, domain.ErrLockParseFailed)
}

func TestApp_Install_RecreatesScratchDir(t *testing.T) {
	f := setupAppTest(t)
	stale := filepath.Join(f.root, domain.ScratchDirName, "leftover.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), domain.DirPerm))
	require.NoError(t, os.WriteFile(stale, []byte("old"), domain.FilePerm))

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(f.config(t, "linear"), nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
	assert.NoDirExists(t, filepath.Join(f.root, domain.ScratchDirName))
}

func TestApp_Install_InstallDirFailure(t *testing.T) {
	f := setupAppTest(t)
	cfg := f.config(t, "linear")
	blocker := filepath.Join(f.root, "file")
	require.NoError(t, os.WriteFile(blocker, nil, domain.FilePerm))
	cfg.InstallDir = filepath.Join(blocker, "Addons")

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(cfg, nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), domain.ErrInstallDirFailed.Error())
	assert.NoDirExists(t, filepath.Join(f.root, domain.ScratchDirName))
}

func TestApp_Install_Cancelled(t *testing.T) {
	f := setupAppTest(t)
	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(f.config(t, "linear", "weakauras"), nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.app.Install(ctx, app.InstallOptions{Cwd: f.root})
	require.ErrorIs(t, err, domain.ErrSyncFailed)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, f.stdout.String(), "0 updated, 0 up to date, 1 failed")
}

func TestApp_Install_InteractiveRenderer(t *testing.T) {
	f := setupAppTest(t)
	f.app.WithDisableTick().WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)

	f.mocks.loader.EXPECT().Load(f.root, domain.Overrides{}).Return(f.config(t, "tui", "weakauras"), nil)
	f.mocks.fetcher.EXPECT().SetTimeout(gomock.Any())
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)
	f.expectDownload("weakauras", 42)
	f.mocks.lockFile.EXPECT().Save(f.lockPath(), gomock.Any()).Return(nil)

	err := f.app.Install(context.Background(), app.InstallOptions{Cwd: f.root})
	require.NoError(t, err)
	assert.Contains(t, f.stdout.String(), "1 updated")
}

func TestApp_List(t *testing.T) {
	f := setupAppTest(t)
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore([]domain.ResolvedLock{
		{Key: "tukui/elvui", ResolvedID: "elvui", Version: "11.23", PublishedAt: 1552521600},
		{Key: "curse/weakauras", ResolvedID: "weakauras", Version: "2.0.1", PublishedAt: 1000},
	}), nil)

	require.NoError(t, f.app.List(context.Background(), app.ListOptions{Cwd: f.root}))

	lines := strings.Split(strings.TrimRight(f.stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ADDON", "VERSION", "RESOLVED", "PUBLISHED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"tukui/elvui", "11.23", "elvui", "2019-03-14T00:00:00Z"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"curse/weakauras", "2.0.1", "weakauras", "1970-01-01T00:16:40Z"}, strings.Fields(lines[2]))
	// Columns line up.
	assert.Equal(t, strings.Index(lines[0], "VERSION"), strings.Index(lines[1], "11.23"))
	assert.Equal(t, strings.Index(lines[0], "PUBLISHED"), strings.Index(lines[2], "1970"))
}

func TestApp_List_Empty(t *testing.T) {
	f := setupAppTest(t)
	f.mocks.lockFile.EXPECT().Load(f.lockPath()).Return(domain.NewLockStore(nil), nil)
	f.mocks.logger.EXPECT().Info("no addons installed")

	require.NoError(t, f.app.List(context.Background(), app.ListOptions{Cwd: f.root}))
	assert.Empty(t, f.stdout.String())
}

func TestApp_Clean(t *testing.T) {
	tests := []struct {
		name       string
		lock       bool
		lockExists bool
	}{
		{name: "scratch only", lock: false, lockExists: true},
		{name: "with lock", lock: true, lockExists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAppTest(t)
			f.mocks.logger.EXPECT().Info(gomock.Any()).AnyTimes()

			scratch := filepath.Join(f.root, domain.ScratchDirName)
			require.NoError(t, os.MkdirAll(filepath.Join(scratch, "x"), domain.DirPerm))
			require.NoError(t, os.WriteFile(f.lockPath(), []byte("addons = []\n"), domain.FilePerm))

			require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{Cwd: f.root, Lock: tt.lock}))

			assert.NoDirExists(t, scratch)
			if tt.lockExists {
				assert.FileExists(t, f.lockPath())
			} else {
				assert.NoFileExists(t, f.lockPath())
			}
		})
	}
}
