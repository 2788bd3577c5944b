// Package jobs provides scheduled background tasks for the synchronization engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ResyncJob - re-fetches every mounted view, so a dashboard that missed a push
// event converges within one period
// 2. SweepJob - unmounts views that have been idle longer than a threshold
// 3. SessionCleanupJob - deletes stored device sessions older than a maximum age
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.Schedules{
//		Resync:   "@every 1m",
//		Sweep:    "@every 1m",
//		IdleView: 10 * time.Minute,
//	}, registry, sessionRepo, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules accept cron expressions with a seconds field or descriptors such as
// "@every 30s". A blank schedule disables its job.
//
// # Error Handling
//
// - Refresh and sweep cannot fail; they log what they did
// - Session cleanup logs store errors and retries on the next tick
// - Failed job starts will stop any already running jobs
package jobs
