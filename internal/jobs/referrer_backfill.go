package jobs

import (
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"linkhub/internal/database"
	"linkhub/internal/pkg/referrerguess"
)

// backfillBatchSize caps how many no-referrer visits one run inspects.
const backfillBatchSize = 500

// ReferrerBackfillJob re-applies the user agent inference rules to visits that
// arrived without a referrer. Rules added after a visit was recorded can still
// resolve it, because the raw user agent is kept alongside.
type ReferrerBackfillJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

func NewReferrerBackfillJob(dbManager *database.DBManager, logger *slog.Logger) *ReferrerBackfillJob {
	return &ReferrerBackfillJob{dbManager: dbManager, logger: logger}
}

type backfillCandidate struct {
	UnknownID    int64  `gorm:"column:unknown_id"`
	VisitationID int64  `gorm:"column:visitation_id"`
	UserAgent    string `gorm:"column:user_agent"`
}

// Run resolves one batch of pending visits. Unresolvable rows stay pending so
// future rule updates get another chance at them.
func (j *ReferrerBackfillJob) Run() error {
	db := j.dbManager.GetConnection()

	var candidates []backfillCandidate
	err := db.Raw(`
        SELECT uv.id as unknown_id, uv.visitation_id, uv.user_agent
        FROM unknown_visitations uv
        JOIN visitations v ON v.id = uv.visitation_id
        WHERE v.referrer IS NULL
        LIMIT ?
    `, backfillBatchSize).Scan(&candidates).Error
	if err != nil {
		return fmt.Errorf("failed to fetch backfill candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil
	}

	resolved := 0
	err = sqlite.PerformWrite(j.logger, db, func(tx *gorm.DB) error {
		for _, candidate := range candidates {
			referrer := referrerguess.InferReferrer(candidate.UserAgent, "")
			if referrer == "" {
				continue
			}

			if err := tx.Exec("UPDATE visitations SET referrer = ? WHERE id = ?", referrer, candidate.VisitationID).Error; err != nil {
				return fmt.Errorf("failed to backfill visitation %d: %w", candidate.VisitationID, err)
			}
			if err := tx.Exec("DELETE FROM unknown_visitations WHERE id = ?", candidate.UnknownID).Error; err != nil {
				return fmt.Errorf("failed to clear resolved entry %d: %w", candidate.UnknownID, err)
			}
			resolved++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if resolved > 0 {
		j.logger.Info("Backfilled referrers from user agents",
			slog.Int("resolved", resolved),
			slog.Int("inspected", len(candidates)))
	}
	return nil
}
