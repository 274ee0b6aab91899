package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	hourlyBreakdownCountries = 3
	polarChartLinks          = 3
	polarChartCountries      = 4
)

// getTopCountriesByHour returns the trailing-12-hours hourly distribution for
// each of the top 3 countries, still honoring the visit predicate.
func getTopCountriesByHour(db *gorm.DB, p Predicate, topCountries []MetricCountResult) ([]CountryHourSeries, error) {
	top := topCountries
	if len(top) > hourlyBreakdownCountries {
		top = top[:hourlyBreakdownCountries]
	}

	series := make([]CountryHourSeries, 0, len(top))
	for _, country := range top {
		var data []HourCount

		query := fmt.Sprintf(`
        SELECT
            strftime('%%H', v.timestamp) as hour,
            COUNT(*) as count
        FROM visitations v
        %s
        GROUP BY hour
        ORDER BY hour
        `, whereWith(p, "v.country = ? AND datetime(v.timestamp) >= datetime('now', '-12 hours')"))

		args := append(append([]any{}, p.Args...), country.Name)
		if err := db.Raw(query, args...).Scan(&data).Error; err != nil {
			return nil, fmt.Errorf("error fetching hourly visits for country %s: %w", country.Name, err)
		}
		if data == nil {
			data = []HourCount{}
		}
		series = append(series, CountryHourSeries{Country: country.Name, Data: data})
	}
	return series, nil
}

// getPolarChartData builds the flattened per-link, per-country click
// breakdown: for each of the top 3 links, the top 4 countries individually
// plus a per-link "Other" remainder, then one global "Other Links" bucket for
// clicks on links outside the top 3. Remainder buckets are omitted when zero.
func getPolarChartData(db *gorm.DB, p Predicate, topLinks []MetricCountResult) ([]PolarChartEntry, error) {
	top := topLinks
	if len(top) > polarChartLinks {
		top = top[:polarChartLinks]
	}

	var entries []PolarChartEntry
	topLinkURLs := make([]string, 0, len(top))

	for _, link := range top {
		topLinkURLs = append(topLinkURLs, link.Name)

		var countryClicks []MetricCountResult

		query := fmt.Sprintf(`
        SELECT
            COALESCE(v.country, '') as name,
            COUNT(*) as count
        FROM link_clicks lc
        JOIN visitations v ON lc.visitation_id = v.id
        %s
        GROUP BY v.country
        ORDER BY count DESC
        `, whereWith(p, "lc.link_url = ?"))

		args := append(append([]any{}, p.Args...), link.Name)
		if err := db.Raw(query, args...).Scan(&countryClicks).Error; err != nil {
			return nil, fmt.Errorf("error fetching country clicks for link %s: %w", link.Name, err)
		}

		topCountries := countryClicks
		if len(topCountries) > polarChartCountries {
			topCountries = topCountries[:polarChartCountries]
		}
		for _, country := range topCountries {
			entries = append(entries, PolarChartEntry{
				Label: fmt.Sprintf("%s - %s", link.Name, country.Name),
				Count: country.Count,
				Link:  link.Name,
			})
		}

		var otherCount int64
		for _, country := range countryClicks[len(topCountries):] {
			otherCount += country.Count
		}
		if otherCount > 0 {
			entries = append(entries, PolarChartEntry{
				Label: fmt.Sprintf("%s - Other", link.Name),
				Count: otherCount,
				Link:  link.Name,
			})
		}
	}

	if len(topLinkURLs) > 0 {
		var otherLinksCount int64

		query := fmt.Sprintf(`
        SELECT COUNT(*)
        FROM link_clicks lc
        JOIN visitations v ON lc.visitation_id = v.id
        %s
        `, whereWith(p, "lc.link_url NOT IN ("+placeholders(len(topLinkURLs))+")"))

		args := append(append([]any{}, p.Args...), toArgs(topLinkURLs)...)
		if err := db.Raw(query, args...).Scan(&otherLinksCount).Error; err != nil {
			return nil, fmt.Errorf("error fetching clicks for other links: %w", err)
		}
		if otherLinksCount > 0 {
			entries = append(entries, PolarChartEntry{
				Label: "Other Links",
				Count: otherLinksCount,
				Link:  "Other Links",
			})
		}
	}

	return entries, nil
}
