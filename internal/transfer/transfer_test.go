package transfer_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/links"
	"linkhub/internal/settings"
	"linkhub/internal/testsupport"
	"linkhub/internal/transfer"
)

func TestExportImportRoundTrip(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	testsupport.CreateTestLink(t, db, "My Blog", "https://blog.example.com")
	testsupport.CreateTestLink(t, db, "My Shop", "https://shop.example.com")

	data, err := transfer.Export(db)
	require.NoError(t, err)

	// Wipe everything, then restore from the document.
	testsupport.CleanAllTables(db)
	var count int64
	db.Model(&links.Link{}).Count(&count)
	require.Equal(t, int64(0), count)

	require.NoError(t, transfer.Import(dbManager, logger, data))

	var restored []links.Link
	require.NoError(t, db.Order("order_index").Find(&restored).Error)
	require.Len(t, restored, 2)
	assert.Equal(t, "My Blog", restored[0].Title)
	assert.Equal(t, "My Shop", restored[1].Title)
}

func TestExportOmitsAnalyticsTables(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	testsupport.CreateTestLink(t, db, "My Blog", "https://blog.example.com")
	visitor := testsupport.CreateTestVisitor(t, db, "fp-transfer")
	visitID := testsupport.CreateTestVisit(t, db, visitor, "US", "https://google.com/", time.Now().UTC())
	testsupport.CreateTestClick(t, db, visitID, "https://blog.example.com", time.Now().UTC())

	data, err := transfer.Export(db)
	require.NoError(t, err)

	var doc transfer.Document
	require.NoError(t, json.Unmarshal(data, &doc))

	names := make([]string, 0, len(doc.Tables))
	for _, table := range doc.Tables {
		names = append(names, table.Name)
	}
	assert.ElementsMatch(t, []string{"settings", "links", "icon_links"}, names)
}

func TestImportReplacesOnlyPresentTables(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	testsupport.CreateTestLink(t, db, "Keep Me", "https://keep.example.com")
	require.NoError(t, settings.UpdateSetting(db, logger, "username", "keepme"))

	doc := transfer.Document{Tables: []transfer.TableDump{
		{Name: "links", Rows: []map[string]any{
			{"id": 1, "title": "Imported", "url": "https://imported.example.com", "enabled": true, "order_index": 1},
		}},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, transfer.Import(dbManager, logger, data))

	var restored []links.Link
	require.NoError(t, db.Find(&restored).Error)
	require.Len(t, restored, 1)
	assert.Equal(t, "Imported", restored[0].Title)

	// Tables absent from the document are untouched.
	value, err := settings.GetSetting(db, "username")
	require.NoError(t, err)
	assert.Equal(t, "keepme", value)
}

func TestImportNeverTouchesAnalyticsOrAuthTables(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	visitor := testsupport.CreateTestVisitor(t, db, "fp-untouched")
	testsupport.CreateTestVisit(t, db, visitor, "US", "https://google.com/", time.Now().UTC())

	doc := transfer.Document{Tables: []transfer.TableDump{
		{Name: "users", Rows: []map[string]any{{"id": 1, "email": "evil@example.com"}}},
		{Name: "visitations", Rows: []map[string]any{{"id": 99, "visitor_id": 99}}},
		{Name: "link_clicks", Rows: []map[string]any{{"id": 99, "visitation_id": 99, "link_url": "https://x.example.com"}}},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, transfer.Import(dbManager, logger, data))

	var userCount int64
	db.Table("users").Count(&userCount)
	assert.Equal(t, int64(0), userCount)

	// The recorded visit survives and the bogus rows are never inserted.
	var visitCount int64
	db.Table("visitations").Count(&visitCount)
	assert.Equal(t, int64(1), visitCount)

	var clickCount int64
	db.Table("link_clicks").Count(&clickCount)
	assert.Equal(t, int64(0), clickCount)
}

func TestImportSkipsUnknownColumns(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	doc := transfer.Document{Tables: []transfer.TableDump{
		{Name: "links", Rows: []map[string]any{
			{"id": 1, "title": "Partial", "url": "https://partial.example.com", "order_index": 1, "legacy_column": "dropped"},
		}},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, transfer.Import(dbManager, logger, data))

	var restored links.Link
	require.NoError(t, db.First(&restored).Error)
	assert.Equal(t, "Partial", restored.Title)
	assert.False(t, restored.Enabled)
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	err := transfer.Import(dbManager, logger, []byte("not json"))
	require.Error(t, err)
}
