package settings

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/cache"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// Setting represents one profile/appearance item in the database.
type Setting struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex;not null"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:milli"`
}

// Setting keys
const (
	KeyContainerColor = "container_color"
	KeyUsername       = "username"
	KeyProfilePicURL  = "profile_pic_url"
	KeyBio            = "bio"
	KeyPageTitle      = "page_title"
	KeyActiveTheme    = "active_theme"
)

// DefaultContainerColor is used until the owner picks a color.
const DefaultContainerColor = "#f0f0f0"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Profile is the public-page view of the settings table.
type Profile struct {
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicURL  string `json:"profile_pic_url"`
	PageTitle      string `json:"page_title"`
	ContainerColor string `json:"container_color"`
	ActiveTheme    string `json:"active_theme"`
}

var settingsCache *cache.Cache[string, string]

// SetupDefaultSettings initializes default settings in the database.
func SetupDefaultSettings(dbConn *gorm.DB) error {
	defaults := []Setting{
		{Key: KeyContainerColor, Value: DefaultContainerColor},
		{Key: KeyUsername, Value: ""},
		{Key: KeyProfilePicURL, Value: ""},
		{Key: KeyBio, Value: ""},
		{Key: KeyPageTitle, Value: ""},
		{Key: KeyActiveTheme, Value: ""},
	}
	err := sqlite.PerformWrite(slog.Default(), dbConn, func(tx *gorm.DB) error {
		for _, setting := range defaults {
			err := tx.Exec(`
                INSERT INTO settings (key, value, created_at, updated_at)
                VALUES (?, ?, ?, ?)
                ON CONFLICT(key) DO NOTHING
            `, setting.Key, setting.Value, time.Now().UTC(), time.Now().UTC()).Error
			if err != nil {
				return fmt.Errorf("failed to upsert setting %s: %w", setting.Key, err)
			}
		}
		return nil
	})

	loadCache(dbConn, slog.Default())

	return err
}

// GetSetting retrieves a setting value from the database.
func GetSetting(dbConn *gorm.DB, key string) (string, error) {
	var setting Setting
	if err := dbConn.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetSettingOrDefault returns the value for key, or fallback when missing.
func GetSettingOrDefault(dbConn *gorm.DB, key, fallback string) string {
	value, err := GetSetting(dbConn, key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}

// UpdateSetting creates or updates a setting and invalidates the cache.
func UpdateSetting(dbConn *gorm.DB, logger *slog.Logger, key, value string) error {
	err := sqlite.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Exec(`
            INSERT INTO settings (key, value, created_at, updated_at)
            VALUES (?, ?, ?, ?)
            ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
        `, key, value, time.Now().UTC(), time.Now().UTC()).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}

	if settingsCache != nil {
		settingsCache.Clear()
	}
	return nil
}

// GetProfile assembles the public profile from the settings table, reading
// through the cache when it is initialized.
func GetProfile(dbConn *gorm.DB) Profile {
	return Profile{
		Username:       lookup(dbConn, KeyUsername),
		Bio:            lookup(dbConn, KeyBio),
		ProfilePicURL:  lookup(dbConn, KeyProfilePicURL),
		PageTitle:      lookup(dbConn, KeyPageTitle),
		ContainerColor: containerColorOrDefault(lookup(dbConn, KeyContainerColor)),
		ActiveTheme:    lookup(dbConn, KeyActiveTheme),
	}
}

// UpdateProfile stores the owner-editable profile fields.
func UpdateProfile(dbConn *gorm.DB, logger *slog.Logger, username, profilePicURL, bio, pageTitle string) error {
	updates := map[string]string{
		KeyUsername:      username,
		KeyProfilePicURL: profilePicURL,
		KeyBio:           bio,
		KeyPageTitle:     pageTitle,
	}
	for key, value := range updates {
		if err := UpdateSetting(dbConn, logger, key, value); err != nil {
			return err
		}
	}
	return nil
}

// UpdateContainerColor validates and stores the base appearance color.
func UpdateContainerColor(dbConn *gorm.DB, logger *slog.Logger, color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid color %q: expected #RRGGBB", color)
	}
	return UpdateSetting(dbConn, logger, KeyContainerColor, color)
}

// SetActiveTheme stores the active theme name; empty deactivates theming.
func SetActiveTheme(dbConn *gorm.DB, logger *slog.Logger, name string) error {
	return UpdateSetting(dbConn, logger, KeyActiveTheme, name)
}

func containerColorOrDefault(color string) string {
	if color == "" {
		return DefaultContainerColor
	}
	return color
}

func lookup(dbConn *gorm.DB, key string) string {
	if settingsCache != nil {
		if value, err := settingsCache.Get(key); err == nil {
			return value
		}
	}
	value, _ := GetSetting(dbConn, key)
	return value
}

func loadCache(dbConn *gorm.DB, logger *slog.Logger) {
	fetchFunc := func(key string) (string, error) {
		var value string
		err := dbConn.WithContext(context.Background()).
			Raw("SELECT value FROM settings WHERE key = ? LIMIT 1", key).
			Scan(&value).Error
		if err != nil {
			return "", err
		}
		return value, nil
	}
	settingsCache = cache.NewCache[string, string](logger, 5*time.Minute, fetchFunc)
}
