package analytics

import (
	"strings"

	"github.com/pariz/gountries"
)

// Filters is the normalized exclusion request applied to every metric.
// An empty collection for a dimension means no filtering on that dimension.
type Filters struct {
	ExcludedLinks        []string
	ExcludedCountries    []string
	ExcludedReferrers    []string
	ExcludeBlankReferrer bool
}

// IsEmpty reports whether the filters exclude nothing.
func (f Filters) IsEmpty() bool {
	return len(f.ExcludedLinks) == 0 &&
		len(f.ExcludedCountries) == 0 &&
		len(f.ExcludedReferrers) == 0 &&
		!f.ExcludeBlankReferrer
}

// NewFilters normalizes raw exclusion tokens into Filters. Tokens are trimmed
// and deduplicated; blank tokens are dropped, except that a blank referrer
// token sets ExcludeBlankReferrer. Country tokens must be valid ISO 3166-1
// alpha-2 codes; unrecognized ones are dropped silently so malformed input
// yields the least-filtered interpretation.
func NewFilters(links, countries, referrers []string) Filters {
	f := Filters{}

	seenLinks := make(map[string]bool)
	for _, raw := range links {
		link := strings.TrimSpace(raw)
		if link == "" || seenLinks[link] {
			continue
		}
		seenLinks[link] = true
		f.ExcludedLinks = append(f.ExcludedLinks, link)
	}

	query := gountries.New()
	seenCountries := make(map[string]bool)
	for _, raw := range countries {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" || seenCountries[code] {
			continue
		}
		if _, err := query.FindCountryByAlpha(code); err != nil {
			continue
		}
		seenCountries[code] = true
		f.ExcludedCountries = append(f.ExcludedCountries, code)
	}

	seenReferrers := make(map[string]bool)
	for _, raw := range referrers {
		referrer := strings.TrimSpace(raw)
		if referrer == "" {
			f.ExcludeBlankReferrer = true
			continue
		}
		if seenReferrers[referrer] {
			continue
		}
		seenReferrers[referrer] = true
		f.ExcludedReferrers = append(f.ExcludedReferrers, referrer)
	}

	return f
}

// SplitFilterParam flattens repeated query parameters, each possibly a
// comma-separated list, into one flat slice. Blank tokens are preserved so
// NewFilters can treat a blank referrer as the no-referrer sentinel.
func SplitFilterParam(values []string) []string {
	var out []string
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			out = append(out, strings.TrimSpace(token))
		}
	}
	return out
}
