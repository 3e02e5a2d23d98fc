package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Source is the pipeline whose derived table is kept warm.
type Source interface {
	Table(ctx context.Context) (domain.DerivedTable, error)
	BuildReport(table domain.DerivedTable, year *int) *domain.Report
}

type RunnerConfig struct {
	Interval time.Duration
}

type RunnerProgress struct {
	Rows        int
	RefreshedAt time.Time
	Err         error
}

// Runner reloads the source on a fixed interval and serves the last good
// snapshot in between. Snapshots are shared and must not be mutated.
type Runner struct {
	source   Source
	config   RunnerConfig
	clock    func() time.Time
	done     chan struct{}
	progress chan RunnerProgress

	mu      sync.RWMutex
	table   domain.DerivedTable
	err     error
	loaded  bool
	stopped bool
}

func NewRunner(source Source, config RunnerConfig) *Runner {
	return &Runner{
		source:   source,
		config:   config,
		clock:    time.Now,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 100),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Table returns the current snapshot, loading it on first use.
func (r *Runner) Table(ctx context.Context) (domain.DerivedTable, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.table, r.err
	}
	r.mu.RUnlock()

	return r.Refresh(ctx)
}

func (r *Runner) BuildReport(table domain.DerivedTable, year *int) *domain.Report {
	return r.source.BuildReport(table, year)
}

// Refresh reloads the source now. A failed reload keeps the previous good
// snapshot; the error is only surfaced while no snapshot exists.
func (r *Runner) Refresh(ctx context.Context) (domain.DerivedTable, error) {
	logger := zerolog.Ctx(ctx)

	table, err := r.source.Table(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case err == nil:
		r.table, r.err = table, nil
	case r.loaded && r.err == nil:
		logger.Warn().Err(err).Int("rows", len(r.table)).Msg("refresh failed, keeping previous snapshot")
	default:
		r.table, r.err = nil, err
	}
	r.loaded = true

	r.publish(RunnerProgress{Rows: len(r.table), RefreshedAt: r.clock(), Err: err})
	return r.table, r.err
}

// Run refreshes on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(r.done)
	defer r.stop()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("source refresh stopped")
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				logger.Error().Err(err).Msg("failed to refresh sources")
			}
		}
	}
}

func (r *Runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	close(r.progress)
}

// publish drops progress updates nobody is reading. Callers hold mu.
func (r *Runner) publish(p RunnerProgress) {
	if r.stopped {
		return
	}
	select {
	case r.progress <- p:
	default:
	}
}
