package analytics

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// VisitInput defines the input required to record a visit.
type VisitInput struct {
	Fingerprint    string
	KnownVisitorID *int64
	Country        string
	Referrer       string
	UserAgent      string
}

// FindOrCreateVisitor resolves a fingerprint to a stable visitor identity
// inside the caller's write transaction. A valid hint ID is honored, and the
// fingerprint is attached to that visitor if it is new. Otherwise the visitor
// already owning the fingerprint is returned, or a fresh visitor is created.
func FindOrCreateVisitor(tx *gorm.DB, fingerprint string, hintID *int64) (int64, error) {
	if hintID != nil {
		var visitor Visitor
		err := tx.Where("id = ?", *hintID).First(&visitor).Error
		if err == nil {
			var existing Fingerprint
			err = tx.Where("fingerprint = ?", fingerprint).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fp := Fingerprint{VisitorID: visitor.ID, Fingerprint: fingerprint, CreatedAt: time.Now().UTC()}
				if err := tx.Create(&fp).Error; err != nil {
					return 0, fmt.Errorf("failed to attach fingerprint: %w", err)
				}
			} else if err != nil {
				return 0, fmt.Errorf("failed to look up fingerprint: %w", err)
			}
			return visitor.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("failed to look up visitor: %w", err)
		}
		// Stale hint, fall through to fingerprint resolution
	}

	var existing Fingerprint
	err := tx.Where("fingerprint = ?", fingerprint).First(&existing).Error
	if err == nil {
		return existing.VisitorID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	visitor := Visitor{CreatedAt: time.Now().UTC()}
	if err := tx.Create(&visitor).Error; err != nil {
		return 0, fmt.Errorf("failed to create visitor: %w", err)
	}
	fp := Fingerprint{VisitorID: visitor.ID, Fingerprint: fingerprint, CreatedAt: time.Now().UTC()}
	if err := tx.Create(&fp).Error; err != nil {
		return 0, fmt.Errorf("failed to create fingerprint: %w", err)
	}
	return visitor.ID, nil
}

// RecordVisit resolves the visitor identity and inserts one Visitation in a
// single serialized write transaction. When the effective referrer is blank,
// the raw user agent is stored alongside for later referrer inference.
func RecordVisit(dbManager cartridge.DBManager, logger *slog.Logger, input VisitInput) (visitID int64, visitorID int64, err error) {
	db := dbManager.GetConnection()

	err = sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		visitorID, err = FindOrCreateVisitor(tx, input.Fingerprint, input.KnownVisitorID)
		if err != nil {
			return err
		}

		visit := Visitation{
			VisitorID: visitorID,
			Country:   nullableString(input.Country),
			Referrer:  nullableString(input.Referrer),
			Timestamp: time.Now().UTC(),
		}
		if err := tx.Create(&visit).Error; err != nil {
			return fmt.Errorf("failed to create visitation: %w", err)
		}
		visitID = visit.ID

		if input.Referrer == "" {
			unknown := UnknownVisitation{VisitationID: visit.ID, UserAgent: input.UserAgent}
			if err := tx.Create(&unknown).Error; err != nil {
				return fmt.Errorf("failed to record unknown visitation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to record visit", slog.Any("error", err))
		return 0, 0, fmt.Errorf("failed to record visit: %w", err)
	}

	return visitID, visitorID, nil
}

// RecordClick inserts one LinkClick owned by visitID. A nil or unknown
// visitID is silently dropped, never an error, since the tracking cookie may
// be missing or stale.
func RecordClick(dbManager cartridge.DBManager, logger *slog.Logger, visitID *int64, linkURL string) error {
	if visitID == nil {
		logger.Debug("Dropping click without visit reference", slog.String("link", linkURL))
		return nil
	}

	db := dbManager.GetConnection()

	var visit Visitation
	if err := db.Where("id = ?", *visitID).First(&visit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Dropping click for unknown visit",
				slog.Int64("visitId", *visitID),
				slog.String("link", linkURL))
			return nil
		}
		return fmt.Errorf("failed to look up visit: %w", err)
	}

	click := LinkClick{VisitationID: visit.ID, LinkURL: linkURL, Timestamp: time.Now().UTC()}
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(&click).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record link click: %w", err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
