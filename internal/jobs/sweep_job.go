package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// IdleSweeper unmounts views idle for longer than a threshold.
type IdleSweeper interface {
	Sweep(idle time.Duration) int
}

// SweepJob unmounts the views nobody has looked at for a while. A viewer that
// comes back gets a freshly mounted view.
type SweepJob struct {
	views    IdleSweeper
	idle     time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSweepJob(views IdleSweeper, idle time.Duration, schedule string, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		views:    views,
		idle:     idle,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "sweep_job"),
	}
}

// Run sweeps once.
func (j *SweepJob) Run(ctx context.Context) {
	if n := j.views.Sweep(j.idle); n > 0 {
		j.logger.InfoContext(ctx, "Idle views unmounted", "count", n, "idle", j.idle)
	}
}

func (j *SweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sweep job started", "schedule", j.schedule, "idle", j.idle)
	return nil
}

func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Sweep job stopped")
}
