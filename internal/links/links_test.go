package links_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/links"
	"linkhub/internal/testsupport"
)

func TestAddLink(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("appends links in display order", func(t *testing.T) {
		testsupport.CleanTables(db, []string{"links"})

		require.NoError(t, links.AddLink(db, logger, "Blog", "https://blog.example.com"))
		require.NoError(t, links.AddLink(db, logger, "Shop", "https://shop.example.com"))

		all, err := links.GetLinks(db)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Blog", all[0].Title)
		assert.Equal(t, "Shop", all[1].Title)
		assert.Less(t, all[0].OrderIndex, all[1].OrderIndex)
		assert.True(t, all[0].Enabled, "new links start enabled")
		assert.False(t, all[0].Adult)
	})

	t.Run("rejects blank title or url", func(t *testing.T) {
		assert.Error(t, links.AddLink(db, logger, "", "https://example.com"))
		assert.Error(t, links.AddLink(db, logger, "Title", ""))
	})
}

func TestToggleLink(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanTables(db, []string{"links"})

	link := testsupport.CreateTestLink(t, db, "Blog", "https://blog.example.com")

	require.NoError(t, links.ToggleLink(db, logger, link.ID))
	all, err := links.GetLinks(db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Enabled)

	require.NoError(t, links.ToggleLink(db, logger, link.ID))
	all, err = links.GetLinks(db)
	require.NoError(t, err)
	assert.True(t, all[0].Enabled)
}

func TestToggleAdult(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanTables(db, []string{"links"})

	link := testsupport.CreateTestLink(t, db, "Club", "https://club.example.com")

	require.NoError(t, links.ToggleAdult(db, logger, link.ID))
	all, err := links.GetLinks(db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Adult)
}

func TestSetBlockedCountries(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("normalizes and stores valid codes", func(t *testing.T) {
		testsupport.CleanTables(db, []string{"links"})
		link := testsupport.CreateTestLink(t, db, "Blog", "https://blog.example.com")

		require.NoError(t, links.SetBlockedCountries(db, logger, link.ID, " us , de ,us,NOPE"))

		all, err := links.GetLinks(db)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.JSONEq(t, `["US","DE"]`, all[0].BlockedCountries)
	})

	t.Run("empty input clears the list", func(t *testing.T) {
		testsupport.CleanTables(db, []string{"links"})
		link := testsupport.CreateTestLink(t, db, "Blog", "https://blog.example.com")

		require.NoError(t, links.SetBlockedCountries(db, logger, link.ID, ""))

		all, err := links.GetLinks(db)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, all[0].BlockedCountries)
	})
}

func TestVisibleLinks(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanTables(db, []string{"links"})

	blog := testsupport.CreateTestLink(t, db, "Blog", "https://blog.example.com")
	shop := testsupport.CreateTestLink(t, db, "Shop", "https://shop.example.com")
	hidden := testsupport.CreateTestLink(t, db, "Hidden", "https://hidden.example.com")

	require.NoError(t, links.SetBlockedCountries(db, logger, blog.ID, "DE,FR"))
	require.NoError(t, links.ToggleLink(db, logger, hidden.ID))

	t.Run("hides disabled links", func(t *testing.T) {
		visible, err := links.VisibleLinks(db, "")
		require.NoError(t, err)
		require.Len(t, visible, 2)
		for _, link := range visible {
			assert.NotEqual(t, hidden.ID, link.ID)
		}
	})

	t.Run("hides links blocked for the visitor country", func(t *testing.T) {
		visible, err := links.VisibleLinks(db, "DE")
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, shop.ID, visible[0].ID)
	})

	t.Run("shows blocked links to other countries", func(t *testing.T) {
		visible, err := links.VisibleLinks(db, "US")
		require.NoError(t, err)
		assert.Len(t, visible, 2)
	})
}

func TestDeleteLink(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanTables(db, []string{"links"})

	link := testsupport.CreateTestLink(t, db, "Blog", "https://blog.example.com")
	require.NoError(t, links.DeleteLink(db, logger, link.ID))

	all, err := links.GetLinks(db)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIconLinks(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("add and list in order", func(t *testing.T) {
		testsupport.CleanTables(db, []string{"icon_links"})

		require.NoError(t, links.AddIconLink(db, logger, "https://github.com/example", "<svg></svg>"))
		require.NoError(t, links.AddIconLink(db, logger, "https://twitter.com/example", ""))

		icons, err := links.GetIconLinks(db)
		require.NoError(t, err)
		require.Len(t, icons, 2)
		assert.Equal(t, "https://github.com/example", icons[0].URL)
		assert.Equal(t, "https://twitter.com/example", icons[1].URL)
	})

	t.Run("rejects blank url", func(t *testing.T) {
		assert.Error(t, links.AddIconLink(db, logger, "", ""))
	})

	t.Run("delete removes the icon", func(t *testing.T) {
		testsupport.CleanTables(db, []string{"icon_links"})
		require.NoError(t, links.AddIconLink(db, logger, "https://github.com/example", ""))

		icons, err := links.GetIconLinks(db)
		require.NoError(t, err)
		require.Len(t, icons, 1)

		require.NoError(t, links.DeleteIconLink(db, logger, icons[0].ID))

		icons, err = links.GetIconLinks(db)
		require.NoError(t, err)
		assert.Empty(t, icons)
	})
}
