package jobs

import (
	"log/slog"

	"adboard/internal/database"
)

// Jobs is an alias for Scheduler kept for callers that predate the scheduler
// rename.
type Jobs = Scheduler

// NewJobs creates a new job scheduler.
func NewJobs(dbManager *database.DBManager, logger *slog.Logger) (*Jobs, error) {
	return NewScheduler(dbManager, logger)
}
