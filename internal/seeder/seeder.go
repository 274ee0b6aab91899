// Package seeder populates the database with sample data for development.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"linkhub/internal/analytics"
	"linkhub/internal/links"
	"linkhub/internal/settings"
)

const seedBatchSize = 500

var seedCountries = []string{"US", "DE", "FR", "GB", "BR", "ES", "NL", "CA", "AU", "JP"}

var seedReferrers = []string{
	"https://tiktok.com/",
	"https://instagram.com/",
	"https://twitter.com/",
	"https://google.com/",
	"", // direct traffic
	"",
}

var seedLinks = []struct {
	title string
	url   string
}{
	{"My Blog", "https://blog.example.com"},
	{"My Shop", "https://shop.example.com"},
	{"YouTube Channel", "https://youtube.com/@example"},
	{"Newsletter", "https://news.example.com"},
	{"Podcast", "https://podcast.example.com"},
}

// Seeder generates a plausible history of visits and clicks.
type Seeder struct {
	dbManager cartridge.DBManager
	logger    *slog.Logger
	visits    int
	rng       *rand.Rand
}

func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, visits int) *Seeder {
	return &Seeder{
		dbManager: dbManager,
		logger:    logger,
		visits:    visits,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run seeds profile settings, links, and the requested number of visits with
// accompanying clicks.
func (s *Seeder) Run(ctx context.Context) error {
	db := s.dbManager.GetConnection()

	if err := s.seedProfile(db); err != nil {
		return err
	}
	if err := s.seedLinks(db); err != nil {
		return err
	}
	if err := s.seedTraffic(ctx, db); err != nil {
		return err
	}

	s.logger.Info("Seeding completed", slog.Int("visits", s.visits))
	return nil
}

func (s *Seeder) seedProfile(db *gorm.DB) error {
	if err := settings.SetupDefaultSettings(db); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	if err := settings.UpdateProfile(db, s.logger, "example", "", "Creator of things.", "Example | Links"); err != nil {
		return fmt.Errorf("failed to seed profile: %w", err)
	}
	return settings.UpdateContainerColor(db, s.logger, "#4a90d9")
}

func (s *Seeder) seedLinks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&links.Link{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count links: %w", err)
	}
	if count > 0 {
		s.logger.Info("Links already present, skipping link seed")
		return nil
	}

	for _, l := range seedLinks {
		if err := links.AddLink(db, s.logger, l.title, l.url); err != nil {
			return fmt.Errorf("failed to seed link %s: %w", l.url, err)
		}
	}
	return links.AddIconLink(db, s.logger, "https://github.com/example", "")
}

func (s *Seeder) seedTraffic(ctx context.Context, db *gorm.DB) error {
	// Roughly one visitor per three visits
	visitorCount := s.visits/3 + 1
	visitorIDs := make([]int64, 0, visitorCount)

	err := sqlite.PerformWrite(s.logger, db, func(tx *gorm.DB) error {
		for i := 0; i < visitorCount; i++ {
			visitor := analytics.Visitor{CreatedAt: time.Now().UTC()}
			if err := tx.Create(&visitor).Error; err != nil {
				return err
			}
			fp := analytics.Fingerprint{
				VisitorID:   visitor.ID,
				Fingerprint: fmt.Sprintf("seed-fp-%d-%d", time.Now().UnixNano(), i),
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&fp).Error; err != nil {
				return err
			}
			visitorIDs = append(visitorIDs, visitor.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed visitors: %w", err)
	}

	linkURLs := make([]string, len(seedLinks))
	for i, l := range seedLinks {
		linkURLs[i] = l.url
	}

	remaining := s.visits
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := seedBatchSize
		if remaining < batch {
			batch = remaining
		}
		remaining -= batch

		err := sqlite.PerformWrite(s.logger, db, func(tx *gorm.DB) error {
			for i := 0; i < batch; i++ {
				visit := analytics.Visitation{
					VisitorID: visitorIDs[s.rng.Intn(len(visitorIDs))],
					Timestamp: time.Now().UTC().Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour),
				}
				country := seedCountries[s.rng.Intn(len(seedCountries))]
				visit.Country = &country
				if referrer := seedReferrers[s.rng.Intn(len(seedReferrers))]; referrer != "" {
					visit.Referrer = &referrer
				}
				if err := tx.Create(&visit).Error; err != nil {
					return err
				}

				// Around 40% of visits click a link
				if s.rng.Intn(10) < 4 {
					click := analytics.LinkClick{
						VisitationID: visit.ID,
						LinkURL:      linkURLs[s.rng.Intn(len(linkURLs))],
						Timestamp:    visit.Timestamp.Add(time.Duration(s.rng.Intn(120)) * time.Second),
					}
					if err := tx.Create(&click).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed visits: %w", err)
		}
	}

	return nil
}
