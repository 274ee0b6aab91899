package jobs

import (
	"log/slog"

	"linkhub/internal/database"
	"linkhub/internal/pkg/geoip"
)

// MaintenanceJob runs the daily housekeeping: a full WAL checkpoint so the
// database file stays compact, and a GeoLite2 reload to pick up a freshly
// installed database file.
type MaintenanceJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

func NewMaintenanceJob(dbManager *database.DBManager, logger *slog.Logger) *MaintenanceJob {
	return &MaintenanceJob{dbManager: dbManager, logger: logger}
}

func (j *MaintenanceJob) Run() error {
	if err := j.dbManager.CheckpointWAL("FULL"); err != nil {
		j.logger.Warn("WAL checkpoint failed", slog.Any("error", err))
	} else {
		j.logger.Debug("WAL checkpoint completed")
	}

	geoip.ReloadGeoDB()
	return nil
}
