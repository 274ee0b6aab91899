package analytics

import "time"

// Visitor is a stable identity created the first time a fingerprint is seen.
type Visitor struct {
	ID        int64     `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Fingerprint maps a device/browser signature to exactly one Visitor.
type Fingerprint struct {
	ID          int64  `gorm:"primaryKey"`
	VisitorID   int64  `gorm:"index;not null"`
	Fingerprint string `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
}

// Visitation is one recorded page view. Rows are append-only.
type Visitation struct {
	ID        int64 `gorm:"primaryKey"`
	VisitorID int64 `gorm:"index;not null"`
	Country   *string
	Referrer  *string
	Timestamp time.Time `gorm:"index"`
}

// LinkClick is one recorded click-through, owned by a Visitation.
type LinkClick struct {
	ID           int64  `gorm:"primaryKey"`
	VisitationID int64  `gorm:"index;not null"`
	LinkURL      string `gorm:"index"`
	Timestamp    time.Time
}

// UnknownVisitation stores the raw user agent for visits that arrived without
// a referrer, so inference rules can be re-applied later.
type UnknownVisitation struct {
	ID           int64 `gorm:"primaryKey"`
	VisitationID int64 `gorm:"index;not null"`
	UserAgent    string
}

// MetricCountResult is a generic name/count pair used by grouped metrics.
type MetricCountResult struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DateCount is one point of a chronological date series.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// HourCount is one point of an hour-of-day series.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}

// CountryHourSeries is the hourly breakdown for a single country.
type CountryHourSeries struct {
	Country string      `json:"country"`
	Data    []HourCount `json:"data"`
}

// PolarChartEntry is one slice of the per-link, per-country click breakdown.
type PolarChartEntry struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	Link  string `json:"link"`
}

// Report is the aggregate document returned by GetAnalytics.
type Report struct {
	TotalVisits            int64               `json:"total_visits"`
	UniqueVisitors         int64               `json:"unique_visitors"`
	TopCountries           []MetricCountResult `json:"top_countries"`
	TopReferrers           []MetricCountResult `json:"top_referrers"`
	TopLinks               []MetricCountResult `json:"top_links"`
	VisitationsByDate      []DateCount         `json:"visitations_by_date"`
	VisitationsLast12Hours []HourCount         `json:"visitations_last_12_hours"`
	TopCountriesByHour     []CountryHourSeries `json:"top_countries_by_hour"`
	PolarChartData         []PolarChartEntry   `json:"polar_chart_data"`
}
