package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"linkhub/internal/pkg/async"
)

const topGroupLimit = 20

// countryBreakdown bundles topCountries with its dependent hourly series so
// both run inside one task.
type countryBreakdown struct {
	Top    []MetricCountResult
	ByHour []CountryHourSeries
}

// linkBreakdown bundles topLinks with its dependent polar chart slices.
type linkBreakdown struct {
	Top   []MetricCountResult
	Polar []PolarChartEntry
}

// GetAnalytics runs the full metric battery against the event store and
// assembles the aggregate report. The metrics are independent except that the
// hourly country series depends on topCountries and the polar chart depends
// on topLinks; those pairs run sequentially inside their own task, in
// parallel with everything else. Any metric failure fails the whole report.
func GetAnalytics(db *gorm.DB, logger *slog.Logger, filters Filters) (*Report, error) {
	visitPred, clickPred := composePredicates(filters)

	tasks := []async.Task{
		{
			Name: "totalVisits",
			Execute: func() (interface{}, error) {
				return getTotalVisits(db, visitPred)
			},
		},
		{
			Name: "uniqueVisitors",
			Execute: func() (interface{}, error) {
				return getUniqueVisitors(db, visitPred)
			},
		},
		{
			Name: "topReferrers",
			Execute: func() (interface{}, error) {
				return getTopReferrers(db, visitPred)
			},
		},
		{
			Name: "visitationsByDate",
			Execute: func() (interface{}, error) {
				return getVisitationsByDate(db, visitPred)
			},
		},
		{
			Name: "visitationsLast12Hours",
			Execute: func() (interface{}, error) {
				return getVisitationsLast12Hours(db, visitPred)
			},
		},
		{
			Name: "countryBreakdown",
			Execute: func() (interface{}, error) {
				top, err := getTopCountries(db, visitPred)
				if err != nil {
					return nil, err
				}
				byHour, err := getTopCountriesByHour(db, visitPred, top)
				if err != nil {
					return nil, err
				}
				return countryBreakdown{Top: top, ByHour: byHour}, nil
			},
		},
		{
			Name: "linkBreakdown",
			Execute: func() (interface{}, error) {
				top, err := getTopLinks(db, clickPred)
				if err != nil {
					return nil, err
				}
				polar, err := getPolarChartData(db, clickPred, top)
				if err != nil {
					return nil, err
				}
				return linkBreakdown{Top: top, Polar: polar}, nil
			},
		},
	}

	pool := async.NewPool(len(tasks))
	results := pool.Execute(context.Background(), tasks)

	for name, result := range results {
		if result.Err != nil {
			logger.Error("Analytics metric failed", slog.String("metric", name), slog.Any("error", result.Err))
			return nil, fmt.Errorf("error fetching %s: %w", name, result.Err)
		}
	}

	countries := results["countryBreakdown"].Data.(countryBreakdown)
	links := results["linkBreakdown"].Data.(linkBreakdown)

	return &Report{
		TotalVisits:            results["totalVisits"].Data.(int64),
		UniqueVisitors:         results["uniqueVisitors"].Data.(int64),
		TopCountries:           ensureNonNil(countries.Top),
		TopReferrers:           ensureNonNil(results["topReferrers"].Data.([]MetricCountResult)),
		TopLinks:               ensureNonNil(links.Top),
		VisitationsByDate:      ensureNonNilDates(results["visitationsByDate"].Data.([]DateCount)),
		VisitationsLast12Hours: ensureNonNilHours(results["visitationsLast12Hours"].Data.([]HourCount)),
		TopCountriesByHour:     ensureNonNilSeries(countries.ByHour),
		PolarChartData:         ensureNonNilPolar(links.Polar),
	}, nil
}

func getTotalVisits(db *gorm.DB, p Predicate) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM visitations v %s", whereClause(p))
	if err := db.Raw(query, p.Args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting visits: %w", err)
	}
	return count, nil
}

func getUniqueVisitors(db *gorm.DB, p Predicate) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(DISTINCT v.visitor_id) FROM visitations v %s", whereClause(p))
	if err := db.Raw(query, p.Args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting unique visitors: %w", err)
	}
	return count, nil
}

func getTopCountries(db *gorm.DB, p Predicate) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := fmt.Sprintf(`
    SELECT
        COALESCE(v.country, '') as name,
        COUNT(*) as count
    FROM visitations v
    %s
    GROUP BY v.country
    ORDER BY count DESC
    LIMIT ?
    `, whereClause(p))

	args := append(append([]any{}, p.Args...), topGroupLimit)
	if err := db.Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error fetching top countries: %w", err)
	}
	return results, nil
}

func getTopReferrers(db *gorm.DB, p Predicate) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := fmt.Sprintf(`
    SELECT
        COALESCE(v.referrer, '') as name,
        COUNT(*) as count
    FROM visitations v
    %s
    GROUP BY v.referrer
    ORDER BY count DESC
    LIMIT ?
    `, whereClause(p))

	args := append(append([]any{}, p.Args...), topGroupLimit)
	if err := db.Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error fetching top referrers: %w", err)
	}
	return results, nil
}

func getTopLinks(db *gorm.DB, p Predicate) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := fmt.Sprintf(`
    SELECT
        lc.link_url as name,
        COUNT(*) as count
    FROM link_clicks lc
    JOIN visitations v ON lc.visitation_id = v.id
    %s
    GROUP BY lc.link_url
    ORDER BY count DESC
    LIMIT ?
    `, whereClause(p))

	args := append(append([]any{}, p.Args...), topGroupLimit)
	if err := db.Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error fetching top links: %w", err)
	}
	return results, nil
}

func getVisitationsByDate(db *gorm.DB, p Predicate) ([]DateCount, error) {
	var results []DateCount

	// Timestamps are stored in UTC; the date series buckets by the host's
	// local calendar date.
	query := fmt.Sprintf(`
    SELECT
        DATE(v.timestamp, 'localtime') as date,
        COUNT(*) as count
    FROM visitations v
    %s
    GROUP BY DATE(v.timestamp, 'localtime')
    ORDER BY date
    `, whereClause(p))

	if err := db.Raw(query, p.Args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error fetching visitations by date: %w", err)
	}
	return results, nil
}

func getVisitationsLast12Hours(db *gorm.DB, p Predicate) ([]HourCount, error) {
	var results []HourCount

	query := fmt.Sprintf(`
    SELECT
        strftime('%%H', v.timestamp) as hour,
        COUNT(*) as count
    FROM visitations v
    %s
    GROUP BY hour
    ORDER BY hour
    `, whereWith(p, "datetime(v.timestamp) >= datetime('now', '-12 hours')"))

	if err := db.Raw(query, p.Args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error fetching visitations for last 12 hours: %w", err)
	}
	return results, nil
}

func ensureNonNil(items []MetricCountResult) []MetricCountResult {
	if items == nil {
		return []MetricCountResult{}
	}
	return items
}

func ensureNonNilDates(items []DateCount) []DateCount {
	if items == nil {
		return []DateCount{}
	}
	return items
}

func ensureNonNilHours(items []HourCount) []HourCount {
	if items == nil {
		return []HourCount{}
	}
	return items
}

func ensureNonNilSeries(items []CountryHourSeries) []CountryHourSeries {
	if items == nil {
		return []CountryHourSeries{}
	}
	return items
}

func ensureNonNilPolar(items []PolarChartEntry) []PolarChartEntry {
	if items == nil {
		return []PolarChartEntry{}
	}
	return items
}
