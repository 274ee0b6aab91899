package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/inertia"

	"linkhub/internal/analytics"
)

// filtersFromQuery collects the exclusion parameters from the query string.
// PeekMulti only yields parameters that are actually present, so an absent
// excludeReferrers never turns into the blank-referrer sentinel.
func filtersFromQuery(ctx *cartridge.Context) analytics.Filters {
	collect := func(key string) []string {
		raw := ctx.Ctx.Context().QueryArgs().PeekMulti(key)
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			values = append(values, string(v))
		}
		return analytics.SplitFilterParam(values)
	}

	return analytics.NewFilters(
		collect("excludeLinks"),
		collect("excludeCountries"),
		collect("excludeReferrers"),
	)
}

// AdminAnalyticsAction renders the analytics dashboard.
func AdminAnalyticsAction(ctx *cartridge.Context) error {
	filters := filtersFromQuery(ctx)

	report, err := analytics.GetAnalytics(ctx.DB(), ctx.Logger, filters)
	if err != nil {
		ctx.Logger.Error("Failed to build analytics report", slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load analytics")
	}

	return inertia.RenderPage(ctx.Ctx, "Analytics", inertia.Props{
		"report": report,
		"filters": fiber.Map{
			"excludeLinks":         filters.ExcludedLinks,
			"excludeCountries":     filters.ExcludedCountries,
			"excludeReferrers":     filters.ExcludedReferrers,
			"excludeBlankReferrer": filters.ExcludeBlankReferrer,
		},
	})
}

// AdminAnalyticsDataAction serves the report as JSON for client-side refreshes.
func AdminAnalyticsDataAction(ctx *cartridge.Context) error {
	filters := filtersFromQuery(ctx)

	report, err := analytics.GetAnalytics(ctx.DB(), ctx.Logger, filters)
	if err != nil {
		ctx.Logger.Error("Failed to build analytics report", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics",
		})
	}

	return ctx.JSON(report)
}
