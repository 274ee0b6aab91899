package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/settings"
	"linkhub/internal/testsupport"
)

func TestSetupDefaultSettings(t *testing.T) {
	t.Run("seeds defaults", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		require.NoError(t, settings.SetupDefaultSettings(db))

		color, err := settings.GetSetting(db, settings.KeyContainerColor)
		require.NoError(t, err)
		assert.Equal(t, settings.DefaultContainerColor, color)

		username, err := settings.GetSetting(db, settings.KeyUsername)
		require.NoError(t, err)
		assert.Equal(t, "", username)
	})

	t.Run("does not overwrite existing values", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		require.NoError(t, settings.UpdateSetting(db, logger, settings.KeyUsername, "alice"))
		require.NoError(t, settings.SetupDefaultSettings(db))

		username, err := settings.GetSetting(db, settings.KeyUsername)
		require.NoError(t, err)
		assert.Equal(t, "alice", username, "re-running setup should keep existing values")
	})
}

func TestGetSetting(t *testing.T) {
	t.Run("returns value for existing setting", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		err := settings.UpdateSetting(db, logger, "test_setting", "test_value")
		require.NoError(t, err)

		value, err := settings.GetSetting(db, "test_setting")
		require.NoError(t, err)
		assert.Equal(t, "test_value", value, "GetSetting should return the correct value")
	})

	t.Run("returns error for non-existent setting", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		require.NoError(t, settings.SetupDefaultSettings(db))

		_, err := settings.GetSetting(db, "non_existent")
		assert.Error(t, err, "GetSetting should return an error for non-existent setting")
	})

	t.Run("GetSettingOrDefault falls back on missing or blank values", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		require.NoError(t, settings.SetupDefaultSettings(db))

		assert.Equal(t, "fallback", settings.GetSettingOrDefault(db, "missing_key", "fallback"))
		assert.Equal(t, "fallback", settings.GetSettingOrDefault(db, settings.KeyBio, "fallback"))
	})
}

func TestUpdateSetting(t *testing.T) {
	t.Run("updates existing setting", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		err := settings.UpdateSetting(db, logger, "test_setting", "initial_value")
		require.NoError(t, err)

		value, err := settings.GetSetting(db, "test_setting")
		require.NoError(t, err)
		assert.Equal(t, "initial_value", value)

		err = settings.UpdateSetting(db, logger, "test_setting", "updated_value")
		require.NoError(t, err)

		value, err = settings.GetSetting(db, "test_setting")
		require.NoError(t, err)
		assert.Equal(t, "updated_value", value, "UpdateSetting should update the value correctly")
	})

	t.Run("creates new setting if not exists", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		err := settings.UpdateSetting(db, logger, "new_setting", "new_value")
		require.NoError(t, err)

		value, err := settings.GetSetting(db, "new_setting")
		require.NoError(t, err)
		assert.Equal(t, "new_value", value, "UpdateSetting should create a new setting if it doesn't exist")
	})
}

func TestProfile(t *testing.T) {
	t.Run("GetProfile reflects profile updates", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		err := settings.UpdateProfile(db, logger, "alice", "https://cdn.example.com/pic.png", "Hello!", "Alice | Links")
		require.NoError(t, err)

		profile := settings.GetProfile(db)
		assert.Equal(t, "alice", profile.Username)
		assert.Equal(t, "https://cdn.example.com/pic.png", profile.ProfilePicURL)
		assert.Equal(t, "Hello!", profile.Bio)
		assert.Equal(t, "Alice | Links", profile.PageTitle)
		assert.Equal(t, settings.DefaultContainerColor, profile.ContainerColor)
	})

	t.Run("container color defaults when unset", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		logger := testsupport.GetLogger()
		require.NoError(t, settings.SetupDefaultSettings(db))

		require.NoError(t, settings.UpdateSetting(db, logger, settings.KeyContainerColor, ""))

		profile := settings.GetProfile(db)
		assert.Equal(t, settings.DefaultContainerColor, profile.ContainerColor)
	})
}

func TestUpdateContainerColor(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	logger := testsupport.GetLogger()
	require.NoError(t, settings.SetupDefaultSettings(db))

	t.Run("accepts valid hex color", func(t *testing.T) {
		err := settings.UpdateContainerColor(db, logger, "#4a90d9")
		require.NoError(t, err)

		profile := settings.GetProfile(db)
		assert.Equal(t, "#4a90d9", profile.ContainerColor)
	})

	t.Run("rejects malformed colors", func(t *testing.T) {
		assert.Error(t, settings.UpdateContainerColor(db, logger, "4a90d9"))
		assert.Error(t, settings.UpdateContainerColor(db, logger, "#4a90d"))
		assert.Error(t, settings.UpdateContainerColor(db, logger, "#zzzzzz"))
		assert.Error(t, settings.UpdateContainerColor(db, logger, ""))
	})
}

func TestSetActiveTheme(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	logger := testsupport.GetLogger()
	require.NoError(t, settings.SetupDefaultSettings(db))

	require.NoError(t, settings.SetActiveTheme(db, logger, "midnight"))
	assert.Equal(t, "midnight", settings.GetProfile(db).ActiveTheme)

	require.NoError(t, settings.SetActiveTheme(db, logger, ""))
	assert.Equal(t, "", settings.GetProfile(db).ActiveTheme)
}
