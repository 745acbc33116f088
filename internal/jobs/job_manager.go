// Package jobs provides the scheduled background tasks of the dispatch
// service, built on github.com/robfig/cron/v3. The auth code cleanup sweep
// runs every minute; the daily optimize pass runs at the configured time for
// each registered tenant. Both are managed through JobManager.
package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	authCodeCleanupJob *AuthCodeCleanupJob
	dailyOptimizeJob   *DailyOptimizeJob
}

// NewJobManager creates a job manager over the given jobs.
func NewJobManager(cleanup *AuthCodeCleanupJob, optimize *DailyOptimizeJob) *JobManager {
	return &JobManager{
		authCodeCleanupJob: cleanup,
		dailyOptimizeJob:   optimize,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.authCodeCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start auth code cleanup job: %w", err)
	}

	if err := jm.dailyOptimizeJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.authCodeCleanupJob.Stop()
		return fmt.Errorf("failed to start daily optimize job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dailyOptimizeJob.Stop()
	jm.authCodeCleanupJob.Stop()
}
