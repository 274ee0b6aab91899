package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/analytics"
	"linkhub/internal/testsupport"
)

func TestFindOrCreateVisitorNewFingerprint(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	visitorID, err := analytics.FindOrCreateVisitor(db, "fp-new", nil)
	require.NoError(t, err)
	assert.Greater(t, visitorID, int64(0))

	var fp analytics.Fingerprint
	require.NoError(t, db.Where("fingerprint = ?", "fp-new").First(&fp).Error)
	assert.Equal(t, visitorID, fp.VisitorID)
}

func TestFindOrCreateVisitorExistingFingerprint(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	first, err := analytics.FindOrCreateVisitor(db, "fp-repeat", nil)
	require.NoError(t, err)

	second, err := analytics.FindOrCreateVisitor(db, "fp-repeat", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	db.Model(&analytics.Visitor{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateVisitorHonorsHint(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	known := testsupport.CreateTestVisitor(t, db, "fp-device-a")

	// Same visitor on a second device attaches the new fingerprint.
	resolved, err := analytics.FindOrCreateVisitor(db, "fp-device-b", &known)
	require.NoError(t, err)
	assert.Equal(t, known, resolved)

	var fp analytics.Fingerprint
	require.NoError(t, db.Where("fingerprint = ?", "fp-device-b").First(&fp).Error)
	assert.Equal(t, known, fp.VisitorID)
}

func TestFindOrCreateVisitorStaleHint(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	existing := testsupport.CreateTestVisitor(t, db, "fp-known")

	stale := int64(99999)
	resolved, err := analytics.FindOrCreateVisitor(db, "fp-known", &stale)
	require.NoError(t, err)
	assert.Equal(t, existing, resolved)
}

func TestRecordVisitWithReferrer(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	visitID, visitorID, err := analytics.RecordVisit(dbManager, logger, analytics.VisitInput{
		Fingerprint: "fp-visit",
		Country:     "US",
		Referrer:    "https://tiktok.com/",
		UserAgent:   "Mozilla/5.0 Test Browser",
	})
	require.NoError(t, err)
	assert.Greater(t, visitID, int64(0))
	assert.Greater(t, visitorID, int64(0))

	var visit analytics.Visitation
	require.NoError(t, db.First(&visit, visitID).Error)
	assert.Equal(t, visitorID, visit.VisitorID)
	require.NotNil(t, visit.Country)
	assert.Equal(t, "US", *visit.Country)
	require.NotNil(t, visit.Referrer)
	assert.Equal(t, "https://tiktok.com/", *visit.Referrer)

	var unknownCount int64
	db.Model(&analytics.UnknownVisitation{}).Count(&unknownCount)
	assert.Equal(t, int64(0), unknownCount)
}

func TestRecordVisitWithoutReferrerStoresUserAgent(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	visitID, _, err := analytics.RecordVisit(dbManager, logger, analytics.VisitInput{
		Fingerprint: "fp-noref",
		Country:     "",
		Referrer:    "",
		UserAgent:   "Mozilla/5.0 Test Browser",
	})
	require.NoError(t, err)

	var visit analytics.Visitation
	require.NoError(t, db.First(&visit, visitID).Error)
	assert.Nil(t, visit.Country)
	assert.Nil(t, visit.Referrer)

	var unknown analytics.UnknownVisitation
	require.NoError(t, db.Where("visitation_id = ?", visitID).First(&unknown).Error)
	assert.Equal(t, "Mozilla/5.0 Test Browser", unknown.UserAgent)
}

func TestRecordVisitReusesVisitorAcrossVisits(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	_, firstVisitor, err := analytics.RecordVisit(dbManager, logger, analytics.VisitInput{
		Fingerprint: "fp-return",
		Referrer:    "https://google.com/",
	})
	require.NoError(t, err)

	_, secondVisitor, err := analytics.RecordVisit(dbManager, logger, analytics.VisitInput{
		Fingerprint: "fp-return",
		Referrer:    "https://google.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, firstVisitor, secondVisitor)
}

func TestRecordClick(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	visitor := testsupport.CreateTestVisitor(t, db, "fp-click")
	visitID := testsupport.CreateTestVisit(t, db, visitor, "US", "https://google.com/", time.Now().UTC())

	require.NoError(t, analytics.RecordClick(dbManager, logger, &visitID, "https://a.example.com"))

	var click analytics.LinkClick
	require.NoError(t, db.Where("visitation_id = ?", visitID).First(&click).Error)
	assert.Equal(t, "https://a.example.com", click.LinkURL)
}

func TestRecordClickDropsMissingVisit(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	dbManager := testsupport.NewTestDBManager(db)
	logger := testsupport.GetLogger()

	require.NoError(t, analytics.RecordClick(dbManager, logger, nil, "https://a.example.com"))

	unknown := int64(424242)
	require.NoError(t, analytics.RecordClick(dbManager, logger, &unknown, "https://a.example.com"))

	var count int64
	db.Model(&analytics.LinkClick{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
