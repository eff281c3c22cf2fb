package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	readyOrderBroadcastJob *ReadyOrderBroadcastJob
}

// NewJobManager creates a job manager over the given jobs.
func NewJobManager(readyOrderBroadcastJob *ReadyOrderBroadcastJob) *JobManager {
	return &JobManager{
		readyOrderBroadcastJob: readyOrderBroadcastJob,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.readyOrderBroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start ready order broadcast job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.readyOrderBroadcastJob.Stop()
}
