package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Schedules configures the background jobs. A blank schedule disables its job.
type Schedules struct {
	Resync string

	Sweep    string
	IdleView time.Duration

	SessionCleanup string
	SessionMaxAge  time.Duration
}

type job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  job
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []namedJob
}

// NewJobManager creates the jobs enabled by schedules. sessions may be nil when
// the session store does not expire entries.
func NewJobManager(
	schedules Schedules,
	views interface {
		ViewRefresher
		IdleSweeper
	},
	sessions SessionPurger,
	logger *slog.Logger,
) *JobManager {
	if logger == nil {
		logger = slog.Default()
	}

	jm := &JobManager{}
	if schedules.Resync != "" {
		jm.add("resync", NewResyncJob(views, schedules.Resync, logger))
	}
	if schedules.Sweep != "" && schedules.IdleView > 0 {
		jm.add("sweep", NewSweepJob(views, schedules.IdleView, schedules.Sweep, logger))
	}
	if sessions != nil && schedules.SessionCleanup != "" && schedules.SessionMaxAge > 0 {
		jm.add("session cleanup", NewSessionCleanupJob(sessions, schedules.SessionMaxAge, schedules.SessionCleanup, logger))
	}
	return jm
}

func (jm *JobManager) add(name string, j job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: j})
}

// Len returns the number of enabled jobs.
func (jm *JobManager) Len() int {
	return len(jm.jobs)
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			// Stop already started jobs if this one fails
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, nj := range jm.jobs {
		nj.job.Stop()
	}
}
