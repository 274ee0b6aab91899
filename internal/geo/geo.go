// Package geo resolves the visitor's country for tracking and link gating.
package geo

import (
	"net"
	"strings"

	"log/slog"

	"github.com/pariz/gountries"

	"linkhub/internal/pkg/geoip"
)

// CountryHeader is set by CDNs such as Cloudflare in front of the app.
const CountryHeader = "CF-IPCountry"

// CountryFromHeader validates a CDN-provided country code. Returns the
// upper-cased alpha-2 code, or empty when the header is absent or invalid
// (Cloudflare sends "XX" for unknown and "T1" for Tor).
func CountryFromHeader(value string) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if len(code) != 2 {
		return ""
	}
	query := gountries.New()
	if _, err := query.FindCountryByAlpha(code); err != nil {
		return ""
	}
	return code
}

// CountryFromIP resolves an IP address to an upper-cased alpha-2 code, or
// empty when no GeoLite2 database is installed or the lookup fails.
func CountryFromIP(logger *slog.Logger, ipAddress string) string {
	geoDB := geoip.GetGeoDB()
	if geoDB == nil {
		return ""
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		logger.Debug("Failed to parse IP address", slog.String("ip", ipAddress))
		return ""
	}

	record, err := geoDB.Country(ip)
	if err != nil {
		logger.Debug("GeoIP lookup failed", slog.String("ip", ipAddress), slog.Any("error", err))
		return ""
	}
	if record.Country.IsoCode == "" || record.Country.IsoCode == "--" {
		return ""
	}
	return strings.ToUpper(record.Country.IsoCode)
}

// ResolveCountry prefers the CDN header and falls back to a GeoIP lookup of
// the client address. Empty means unknown.
func ResolveCountry(logger *slog.Logger, headerValue, ipAddress string) string {
	if code := CountryFromHeader(headerValue); code != "" {
		return code
	}
	return CountryFromIP(logger, ipAddress)
}
