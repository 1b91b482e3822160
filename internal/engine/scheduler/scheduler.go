package scheduler

import (
	"context"
	"os"
	"slices"
	"sync"

	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

// AddonStatus represents the progress of one addon through a sync run.
type AddonStatus string

const (
	// StatusPending indicates the addon is waiting to be resolved.
	StatusPending AddonStatus = "Pending"
	// StatusResolving indicates version metadata is being fetched.
	StatusResolving AddonStatus = "Resolving"
	// StatusCurrent indicates the persisted lock is already up to date.
	StatusCurrent AddonStatus = "Current"
	// StatusFetching indicates the archive is being downloaded or extracted.
	StatusFetching AddonStatus = "Fetching"
	// StatusCompleted indicates the addon was updated.
	StatusCompleted AddonStatus = "Completed"
	// StatusFailed indicates resolution or fetching failed.
	StatusFailed AddonStatus = "Failed"
)

// Options configures a single sync run.
type Options struct {
	// Parallel bounds in-flight operations per stage.
	Parallel int
	// ScratchDir stages downloaded archives. It must exist.
	ScratchDir string
	// InstallDir receives extracted archives. It must exist.
	InstallDir string
}

// Scheduler resolves, filters and fetches addons.
type Scheduler struct {
	providers ports.Providers
	extractor ports.Extractor
	tracer    ports.Tracer

	mu     sync.RWMutex
	status map[string]AddonStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(providers ports.Providers, extractor ports.Extractor, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		providers: providers,
		extractor: extractor,
		tracer:    tracer,
		status:    make(map[string]AddonStatus),
	}
}

// Status returns the last known status of the addon with the given key.
func (s *Scheduler) Status(key string) AddonStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[key]
}

func (s *Scheduler) updateStatus(key string, status AddonStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = status
}

type resolved struct {
	req  domain.AddonRequest
	lock domain.ResolvedLock
}

// Sync resolves every request, keeps those newer than previous and fetches them.
// previous is only read. Per-addon failures are reported in the summary; the
// returned error is non-nil only when ctx was cancelled.
func (s *Scheduler) Sync(
	ctx context.Context,
	requests []domain.AddonRequest,
	previous *domain.LockStore,
	opts Options,
) (*domain.Summary, error) {
	summary := &domain.Summary{}

	for _, req := range requests {
		s.updateStatus(req.Key(), StatusPending)
	}

	// Phase 1: resolve everything before deciding what to download.
	resolveResults := s.runResolve(ctx, requests, previous, opts.Parallel)
	slices.SortFunc(resolveResults, byIndex)

	var stale []resolved
	for _, res := range resolveResults {
		key := res.Input.Key()
		switch {
		case res.Err != nil:
			s.updateStatus(key, StatusFailed)
			summary.Add(domain.Outcome{Key: key, Status: domain.StatusFailed, Err: res.Err})
		case domain.IsStale(res.Value, previous):
			stale = append(stale, resolved{req: res.Input, lock: res.Value})
		default:
			s.updateStatus(key, StatusCurrent)
			summary.Add(domain.Outcome{Key: key, Status: domain.StatusCurrent, Lock: res.Value})
		}
	}

	// Phase 2: download and extract the stale ones.
	for _, res := range s.runFetch(ctx, stale, opts) {
		key := res.Input.req.Key()
		if res.Err != nil {
			s.updateStatus(key, StatusFailed)
			summary.Add(domain.Outcome{Key: key, Status: domain.StatusFailed, Lock: res.Input.lock, Err: res.Err})
			continue
		}
		s.updateStatus(key, StatusCompleted)
		summary.Add(domain.Outcome{Key: key, Status: domain.StatusUpdated, Lock: res.Value})
	}

	return summary, ctx.Err()
}

func (s *Scheduler) runResolve(
	ctx context.Context,
	requests []domain.AddonRequest,
	previous *domain.LockStore,
	parallel int,
) []Result[domain.AddonRequest, domain.ResolvedLock] {
	stage := string(domain.StageResolve)
	s.tracer.EmitPlan(ctx, stage, keysOf(requests))

	ctx, span := s.tracer.Start(ctx, stage, ports.WithStage(stage))
	defer span.End()

	return RunStage(ctx, requests, parallel, func(ctx context.Context, req domain.AddonRequest) (domain.ResolvedLock, error) {
		key := req.Key()
		s.updateStatus(key, StatusResolving)

		ctx, span := s.tracer.Start(ctx, key, ports.WithStage(stage))
		defer span.End()

		lock, err := s.resolveOne(ctx, req, previous, span)
		if err != nil {
			err = zerr.With(err, "addon", key)
			span.RecordError(err)
			return domain.ResolvedLock{}, err
		}
		span.SetAttribute("wam.version", lock.Version)
		return lock, nil
	})
}

func (s *Scheduler) resolveOne(
	ctx context.Context,
	req domain.AddonRequest,
	previous *domain.LockStore,
	progress ports.Progress,
) (domain.ResolvedLock, error) {
	provider, err := s.providers.For(req.Provider)
	if err != nil {
		return domain.ResolvedLock{}, err
	}

	var prev *domain.ResolvedLock
	if p, ok := previous.Get(req.Key()); ok {
		prev = &p
	}

	lock, err := provider.Resolve(ctx, req, prev, progress)
	if err != nil {
		return domain.ResolvedLock{}, err
	}
	lock.Key = req.Key()
	return lock, nil
}

func (s *Scheduler) runFetch(
	ctx context.Context,
	stale []resolved,
	opts Options,
) []Result[resolved, domain.ResolvedLock] {
	stage := string(domain.StageFetch)
	keys := make([]string, len(stale))
	for i, r := range stale {
		keys[i] = r.req.Key()
	}
	s.tracer.EmitPlan(ctx, stage, keys)

	ctx, span := s.tracer.Start(ctx, stage, ports.WithStage(stage))
	defer span.End()

	return RunStage(ctx, stale, opts.Parallel, func(ctx context.Context, r resolved) (domain.ResolvedLock, error) {
		key := r.req.Key()
		s.updateStatus(key, StatusFetching)

		ctx, span := s.tracer.Start(ctx, key, ports.WithStage(stage))
		defer span.End()

		if err := s.fetchOne(ctx, r, opts, span); err != nil {
			err = zerr.With(err, "addon", key)
			span.RecordError(err)
			return domain.ResolvedLock{}, err
		}
		return r.lock, nil
	})
}

// fetchOne downloads one archive into its own staging directory and extracts it.
// The staging directory is removed once extraction has finished.
func (s *Scheduler) fetchOne(ctx context.Context, r resolved, opts Options, progress ports.Progress) error {
	provider, err := s.providers.For(r.req.Provider)
	if err != nil {
		return err
	}

	dir := domain.StagingDir(opts.ScratchDir, r.req.Key())
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrScratchDirFailed.Error()), "dir", dir))
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	archive, err := provider.Fetch(ctx, r.req, r.lock, dir, progress)
	if err != nil {
		return err
	}

	progress.Step(domain.StepExtracting)
	return s.extractor.Extract(ctx, archive.Path, opts.InstallDir)
}

func keysOf(requests []domain.AddonRequest) []string {
	keys := make([]string, len(requests))
	for i, r := range requests {
		keys[i] = r.Key()
	}
	return keys
}

func byIndex[T, R any](a, b Result[T, R]) int {
	return a.Index - b.Index
}
