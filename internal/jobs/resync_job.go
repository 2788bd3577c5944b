package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ViewRefresher re-fetches every mounted view.
type ViewRefresher interface {
	RefreshAll() int
}

// ResyncJob periodically re-fetches every mounted view, bounding how long a
// dashboard can miss a lost push event.
type ResyncJob struct {
	views    ViewRefresher
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewResyncJob creates the job. schedule is a cron expression with seconds or a
// descriptor such as "@every 1m".
func NewResyncJob(views ViewRefresher, schedule string, logger *slog.Logger) *ResyncJob {
	return &ResyncJob{
		views:    views,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "resync_job"),
	}
}

// Run refreshes once.
func (j *ResyncJob) Run(ctx context.Context) {
	if n := j.views.RefreshAll(); n > 0 {
		j.logger.DebugContext(ctx, "Views refreshed", "count", n)
	}
}

func (j *ResyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Resync job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running refresh to return.
func (j *ResyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Resync job stopped")
}
