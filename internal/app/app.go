// Package app implements the application layer for wam.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.trai.ch/wam/internal/adapters/detector"
	"go.trai.ch/wam/internal/adapters/linear"
	"go.trai.ch/wam/internal/adapters/telemetry"
	"go.trai.ch/wam/internal/adapters/tui"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/wam/internal/engine/scheduler"
	"go.trai.ch/wam/internal/ui/output"
	"go.trai.ch/wam/internal/ui/summary"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	lockFile     ports.LockFile
	fetcher      ports.Fetcher
	providers    ports.Providers
	extractor    ports.Extractor
	logger       ports.Logger

	stdout      io.Writer
	stderr      io.Writer
	teaOptions  []tea.ProgramOption
	disableTick bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	lockFile ports.LockFile,
	fetcher ports.Fetcher,
	providers ports.Providers,
	extractor ports.Extractor,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		lockFile:     lockFile,
		fetcher:      fetcher,
		providers:    providers,
		extractor:    extractor,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects the summary (stdout) and progress (stderr) streams.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithTeaOptions adds bubbletea program options.
// Tests use it to run the interactive renderer headless.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick stops the interactive renderer's spinner.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// InstallOptions configures a sync run.
type InstallOptions struct {
	// Cwd is where wam.toml or wam.yaml is looked up. Empty means the process
	// working directory.
	Cwd       string
	Overrides domain.Overrides
}

// Install resolves every configured addon, downloads the stale ones and
// persists the merged lock file. Per-addon failures are reported in the
// summary and do not fail the run; configuration errors, a failed lock write
// and cancellation do.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	cwd, err := resolveCwd(opts.Cwd)
	if err != nil {
		return err
	}

	// 1. Configuration and prior state.
	cfg, err := a.configLoader.Load(cwd, opts.Overrides)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	a.fetcher.SetTimeout(cfg.Timeout)

	lockPath := filepath.Join(cfg.Root, domain.LockFileName)
	previous, err := a.lockFile.Load(lockPath)
	if err != nil {
		return err
	}

	// 2. Working directories.
	scratch := filepath.Join(cfg.Root, domain.ScratchDirName)
	if err := recreateDir(scratch); err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrScratchDirFailed.Error()), "dir", scratch))
	}
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	if err := os.MkdirAll(cfg.InstallDir, domain.DirPerm); err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrInstallDirFailed.Error()), "dir", cfg.InstallDir))
	}

	// 3. Progress rendering and tracing.
	renderer := a.newRenderer(ctx, cfg.OutputMode)
	tp := telemetry.NewProvider(renderer)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(tp).WithRenderer(renderer)

	sched := scheduler.NewScheduler(a.providers, a.extractor, tracer)
	syncOpts := scheduler.Options{
		Parallel:   cfg.Parallel,
		ScratchDir: scratch,
		InstallDir: cfg.InstallDir,
	}

	// 4. Run renderer and scheduler concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	var result *domain.Summary
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		var syncErr error
		result, syncErr = sched.Sync(gctx, cfg.Addons, previous, syncOpts)
		return syncErr
	})

	runErr := g.Wait()
	if errors.Is(runErr, tea.ErrInterrupted) {
		runErr = context.Canceled
	}

	// 5. Report what happened before persisting, so a failed write still
	// shows which addons are on disk.
	var updated []domain.ResolvedLock
	if result != nil {
		updated = result.Updated()
		_, _ = io.WriteString(a.stdout, summary.Render(output.New(a.stdout), result))
	}

	// 6. Persist whatever was installed, even after an interruption.
	if len(updated) > 0 {
		if err := a.lockFile.Save(lockPath, previous.Merge(updated)); err != nil {
			return errors.Join(domain.ErrSyncFailed, err)
		}
	}

	if runErr != nil {
		return errors.Join(domain.ErrSyncFailed, runErr)
	}
	return nil
}

func (a *App) newRenderer(ctx context.Context, mode string) ports.Renderer {
	if detector.ResolveMode(detector.DetectEnvironment(), mode) == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		return tui.NewRenderer(&model, opts...)
	}
	return linear.NewRenderer(a.stderr)
}

// ListOptions configures List.
type ListOptions struct {
	Cwd string
}

// List prints the entries of the lock file in its stored order.
func (a *App) List(_ context.Context, opts ListOptions) error {
	cwd, err := resolveCwd(opts.Cwd)
	if err != nil {
		return err
	}

	store, err := a.lockFile.Load(filepath.Join(cwd, domain.LockFileName))
	if err != nil {
		return err
	}

	if store.Len() == 0 {
		a.logger.Info("no addons installed")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.stdout)
	t.AppendHeader(table.Row{"Addon", "Version", "Resolved", "Published"})
	for _, e := range store.Entries() {
		t.AppendRow(table.Row{e.Key, e.Version, e.ResolvedID, e.PublishedTime().Format(time.RFC3339)})
	}
	style := table.StyleLight
	style.Options = table.OptionsNoBordersAndSeparators
	t.SetStyle(style)
	t.Render()
	return nil
}

// CleanOptions configures Clean.
type CleanOptions struct {
	Cwd string
	// Lock also removes the lock file, forcing the next install to download everything.
	Lock bool
}

// Clean removes the scratch directory and, optionally, the lock file.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cwd, err := resolveCwd(opts.Cwd)
	if err != nil {
		return err
	}

	var errs error
	remove := func(path, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, domain.StorageError(zerr.With(zerr.Wrap(err, "failed to remove "+name), "path", path)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(cwd, domain.ScratchDirName), "scratch directory")
	if opts.Lock {
		remove(filepath.Join(cwd, domain.LockFileName), "lock file")
	}

	return errs
}

func resolveCwd(cwd string) (string, error) {
	if cwd != "" {
		return cwd, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return wd, nil
}

// recreateDir removes dir and creates it empty.
func recreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, domain.DirPerm)
}
