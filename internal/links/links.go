package links

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"github.com/pariz/gountries"
	"gorm.io/gorm"
)

// Link is one entry on the public page. BlockedCountries holds a JSON array
// of ISO 3166-1 alpha-2 codes.
type Link struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Title            string `gorm:"not null" json:"title"`
	URL              string `gorm:"not null" json:"url"`
	BlockedCountries string `json:"blocked_countries"`
	Enabled          bool   `json:"enabled"`
	Adult            bool   `json:"adult"`
	OrderIndex       int    `gorm:"index" json:"order_index"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IconLink is one social icon shown under the profile header.
type IconLink struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	URL        string    `gorm:"not null" json:"url"`
	SVGCode    string    `json:"svg_code"`
	OrderIndex int       `gorm:"index" json:"order_index"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// GetLinks returns all links ordered by their display position.
func GetLinks(db *gorm.DB) ([]Link, error) {
	var links []Link
	if err := db.Order("order_index").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch links: %w", err)
	}
	return links, nil
}

// VisibleLinks returns the links shown to a visitor from the given country:
// enabled links whose blocked-country list does not contain the country.
func VisibleLinks(db *gorm.DB, country string) ([]Link, error) {
	all, err := GetLinks(db)
	if err != nil {
		return nil, err
	}

	visible := make([]Link, 0, len(all))
	for _, link := range all {
		if !link.Enabled {
			continue
		}
		if country != "" && link.BlockedCountries != "" {
			var blocked []string
			if err := json.Unmarshal([]byte(link.BlockedCountries), &blocked); err == nil {
				if containsString(blocked, country) {
					continue
				}
			}
		}
		visible = append(visible, link)
	}
	return visible, nil
}

// AddLink creates an enabled link appended at the end of the display order.
func AddLink(db *gorm.DB, logger *slog.Logger, title, url string) error {
	if title == "" || url == "" {
		return fmt.Errorf("title and url are required")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec(`
            INSERT INTO links (title, url, enabled, adult, order_index, created_at, updated_at)
            VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(order_index), 0) + 1 FROM links), ?, ?)
        `, title, url, true, false, time.Now().UTC(), time.Now().UTC()).Error
	})
}

// ToggleLink flips the enabled state of a link.
func ToggleLink(db *gorm.DB, logger *slog.Logger, id int64) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE links SET enabled = NOT enabled, updated_at = ? WHERE id = ?", time.Now().UTC(), id).Error
	})
}

// ToggleAdult flips the 18+ flag of a link.
func ToggleAdult(db *gorm.DB, logger *slog.Logger, id int64) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE links SET adult = NOT adult, updated_at = ? WHERE id = ?", time.Now().UTC(), id).Error
	})
}

// SetBlockedCountries replaces the blocked-country list of a link from a
// comma-separated input. Tokens that are not valid alpha-2 codes are dropped.
func SetBlockedCountries(db *gorm.DB, logger *slog.Logger, id int64, countries string) error {
	codes := normalizeCountryCodes(countries)
	encoded, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to encode blocked countries: %w", err)
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Model(&Link{}).Where("id = ?", id).Update("blocked_countries", string(encoded)).Error
	})
}

// DeleteLink removes a link.
func DeleteLink(db *gorm.DB, logger *slog.Logger, id int64) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&Link{}, id).Error
	})
}

// GetIconLinks returns all icon links ordered by display position.
func GetIconLinks(db *gorm.DB) ([]IconLink, error) {
	var icons []IconLink
	if err := db.Order("order_index").Find(&icons).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch icon links: %w", err)
	}
	return icons, nil
}

// AddIconLink creates an icon link appended at the end of the display order.
func AddIconLink(db *gorm.DB, logger *slog.Logger, url, svgCode string) error {
	if url == "" {
		return fmt.Errorf("url is required")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec(`
            INSERT INTO icon_links (url, svg_code, order_index, created_at)
            VALUES (?, ?, (SELECT COALESCE(MAX(order_index), 0) + 1 FROM icon_links), ?)
        `, url, svgCode, time.Now().UTC()).Error
	})
}

// DeleteIconLink removes an icon link.
func DeleteIconLink(db *gorm.DB, logger *slog.Logger, id int64) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&IconLink{}, id).Error
	})
}

func normalizeCountryCodes(input string) []string {
	query := gountries.New()
	codes := []string{}
	seen := make(map[string]bool)
	for _, token := range strings.Split(input, ",") {
		code := strings.ToUpper(strings.TrimSpace(token))
		if code == "" || seen[code] {
			continue
		}
		if _, err := query.FindCountryByAlpha(code); err != nil {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
