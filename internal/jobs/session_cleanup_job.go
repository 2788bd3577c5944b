package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionPurger deletes stored sessions not updated since cutoff.
type SessionPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionCleanupJob forgets device sessions older than maxAge.
type SessionCleanupJob struct {
	store    SessionPurger
	maxAge   time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSessionCleanupJob(store SessionPurger, maxAge time.Duration, schedule string, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		store:    store,
		maxAge:   maxAge,
		schedule: schedule,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "session_cleanup_job"),
	}
}

// Run purges once.
func (j *SessionCleanupJob) Run(ctx context.Context) {
	cutoff := j.now().Add(-j.maxAge).UTC()

	n, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Session cleanup failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Expired sessions deleted", "count", n, "cutoff", cutoff)
	}
}

func (j *SessionCleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session cleanup job started", "schedule", j.schedule, "max_age", j.maxAge)
	return nil
}

func (j *SessionCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Session cleanup job stopped")
}
