package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/pkg/logutil"
)

// Job is a unit of recurring background work. Run receives the scheduler's
// base context and should return once the pass is complete.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

// jobTimeout bounds a single run so a wedged pass cannot hold its slot forever.
const jobTimeout = 30 * time.Minute

type CronScheduler struct {
	cron *cron.Cron
	base atomic.Pointer[context.Context]
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron: cron.New(cron.WithParser(parser)),
	}
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	if _, err := c.cron.AddFunc(spec, c.runner(job)); err != nil {
		return err
	}
	logutil.GetLogger(context.Background()).Info("job scheduled",
		zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.base.Store(&ctx)
	c.cron.Start()
}

func (c *CronScheduler) Stop() {
	<-c.cron.Stop().Done()
}

// runner wraps a job with overlap protection: if a previous run of the same
// job is still in flight, the new tick is dropped rather than queued.
func (c *CronScheduler) runner(job Job) func() {
	var busy atomic.Bool
	return func() {
		if !busy.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).Warn("job tick dropped, previous run in flight",
				zap.String("job", job.Name()))
			return
		}
		defer busy.Store(false)

		base := context.Background()
		if p := c.base.Load(); p != nil {
			base = *p
		}
		ctx, cancel := context.WithTimeout(base, jobTimeout)
		defer cancel()

		logger := logutil.GetLogger(ctx).With(zap.String("job", job.Name()))
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			logger.Error("job run failed", zap.Error(err), zap.Duration("cost", time.Since(start)))
			return
		}
		logger.Info("job run done", zap.Duration("cost", time.Since(start)))
	}
}
