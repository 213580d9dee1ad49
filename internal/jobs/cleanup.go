package jobs

import (
	"log/slog"
	"time"

	"adboard/internal/campaigns"
	"adboard/internal/config"
	"adboard/internal/database"
)

// CleanupJob handles cleanup of insight records past the retention window.
type CleanupJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewCleanupJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run removes insight records older than the retention period. Deletion is
// batched to avoid locking the database for too long.
func (j *CleanupJob) Run() error {
	retentionDays := j.cfg.InsightsRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	j.logger.Info("Starting cleanup of old insight records",
		slog.Int("retention_days", retentionDays),
		slog.Time("cutoff_date", cutoff))

	store := campaigns.NewStore(j.dbManager.GetConnection())
	deleted, err := store.DeleteRecordsBefore(cutoff, 1000)
	if err != nil {
		j.logger.Error("Failed to delete old insight records",
			slog.Any("error", err),
			slog.Int64("deleted_so_far", deleted))
		return err
	}

	if deleted == 0 {
		j.logger.Debug("No old insight records to clean up")
		return nil
	}

	j.logger.Info("Cleaned up old insight records",
		slog.Int64("deleted_count", deleted),
		slog.Int("retention_days", retentionDays))

	return nil
}
