package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Locker grants a named TTL lease. ok=false means another runner holds it.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type Job interface {
	Run(ctx context.Context) error
}

type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Runner schedules jobs on cron specs; each run holds a lease named
// after the job, so across instances at most one copy runs at a time.
type Runner struct {
	cron   *cron.Cron
	locker Locker
	log    *slog.Logger
}

func NewRunner(locker Locker, log *slog.Logger) *Runner {
	return &Runner{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		locker: locker,
		log:    log,
	}
}

// Add registers job under name. ttl bounds both the lease and the run.
func (r *Runner) Add(spec, name string, ttl time.Duration, job Job) error {
	if _, err := r.cron.AddFunc(spec, func() {
		r.RunOnce(context.Background(), name, ttl, job)
	}); err != nil {
		return fmt.Errorf("schedule %s (%s): %w", name, spec, err)
	}
	return nil
}

// RunOnce executes job if the lease can be taken. Losing the lease is
// not an error.
func (r *Runner) RunOnce(ctx context.Context, name string, ttl time.Duration, job Job) bool {
	ctx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()

	release, ok, err := r.locker.Acquire(ctx, "cron:"+name, ttl)
	if err != nil {
		r.log.Error("lease acquire failed", slog.String("job", name), slog.Any("error", err))
		return false
	}
	if !ok {
		r.log.Debug("lease held elsewhere, skipping", slog.String("job", name))
		return false
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			r.log.Warn("lease release failed", slog.String("job", name), slog.Any("error", err))
		}
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		r.log.Error("job failed", slog.String("job", name), slog.Any("error", err))
		return true
	}
	r.log.Debug("job done", slog.String("job", name), slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return true
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop waits for running jobs or ctx, whichever ends first.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
