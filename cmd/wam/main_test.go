package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wam/internal/app"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/wam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type mainTestMocks struct {
	loader   *mocks.MockConfigLoader
	lockFile *mocks.MockLockFile
	fetcher  *mocks.MockFetcher
	logger   *mocks.MockLogger
}

func setupMainTest(t *testing.T) (ComponentProvider, mainTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mainTestMocks{
		loader:   mocks.NewMockConfigLoader(ctrl),
		lockFile: mocks.NewMockLockFile(ctrl),
		fetcher:  mocks.NewMockFetcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	application := app.New(
		m.loader,
		m.lockFile,
		m.fetcher,
		ports.NewProviders(),
		mocks.NewMockExtractor(ctrl),
		m.logger,
	)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: m.logger}, func() {}, nil
	}
	return provider, m
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider, _ := setupMainTest(t)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, stderr, provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "wam version")
	assert.Empty(t, stderr.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that a failed install is logged and returns 1.
func TestRun_ExecutionError(t *testing.T) {
	provider, m := setupMainTest(t)
	t.Chdir(t.TempDir())

	loadErr := domain.ConfigError(domain.ErrConfigNotFound)
	m.loader.EXPECT().Load(gomock.Any(), domain.Overrides{}).Return(nil, loadErr)
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	exitCode := run(context.Background(), []string{"install"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Cancelled verifies that an interrupted install exits with 130.
func TestRun_Cancelled(t *testing.T) {
	provider, m := setupMainTest(t)
	t.Setenv("NO_COLOR", "1")
	root := t.TempDir()
	t.Chdir(root)

	cfg := &domain.Config{
		Addons:     []domain.AddonRequest{{Name: "weakauras", Provider: domain.ProviderCurse}},
		Parallel:   1,
		Timeout:    time.Second,
		InstallDir: filepath.Join(root, "Interface", "Addons"),
		OutputMode: "linear",
		Root:       root,
	}
	m.loader.EXPECT().Load(gomock.Any(), domain.Overrides{OutputMode: "linear"}).Return(cfg, nil)
	m.fetcher.EXPECT().SetTimeout(time.Second)
	m.lockFile.EXPECT().Load(filepath.Join(root, domain.LockFileName)).Return(domain.NewLockStore(nil), nil)
	m.logger.EXPECT().Warn("interrupted")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout := new(bytes.Buffer)
	exitCode := run(ctx, []string{"install", "--ci"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, 130, exitCode)
	assert.Contains(t, stdout.String(), "0 updated, 0 up to date, 1 failed")
}
