package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"linkhub/internal/analytics"
	"linkhub/internal/config"
	"linkhub/internal/geo"
	"linkhub/internal/pkg/referrerguess"
	"linkhub/internal/visitors"
)

const errInvalidRequest = "Invalid request"

// CreateVisitParams is the tracking payload sent by the page script on load.
// Both identifiers are optional: the fingerprint falls back to a server-side
// hash and the visitor ID is only a hint from a previous response.
type CreateVisitParams struct {
	Fingerprint string `json:"fingerprint"`
	VisitorID   *int64 `json:"visitorId"`
	Referrer    string `json:"referrer"`
}

// CreateClickParams is the payload sent when a visitor follows a link.
type CreateClickParams struct {
	VisitID *int64 `json:"visitId"`
	URL     string `json:"url"`
}

// CreateVisitPublicAPIHandler records one page view and returns the visit and
// visitor identifiers the page script carries into subsequent click reports.
func CreateVisitPublicAPIHandler(ctx *cartridge.Context) error {
	var params CreateVisitParams
	if err := ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse visit request", slog.Any("error", err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errInvalidRequest})
	}

	userAgent := ctx.Get("User-Agent")
	if forwardedUA := ctx.Get("X-Forwarded-User-Agent"); forwardedUA != "" {
		userAgent = forwardedUA
	}

	ipAddress := getClientIP(ctx.Ctx)

	fingerprint := strings.TrimSpace(params.Fingerprint)
	if fingerprint == "" {
		fingerprint = visitors.BuildFingerprint(ipAddress, userAgent, config.GetConfig().PrivateKey)
	}

	input := analytics.VisitInput{
		Fingerprint:    fingerprint,
		KnownVisitorID: params.VisitorID,
		Country:        geo.ResolveCountry(ctx.Logger, ctx.Get(geo.CountryHeader), ipAddress),
		Referrer:       referrerguess.InferReferrer(userAgent, strings.TrimSpace(params.Referrer)),
		UserAgent:      userAgent,
	}

	visitID, visitorID, err := analytics.RecordVisit(ctx.DBManager, ctx.Logger, input)
	if err != nil {
		ctx.Logger.Error("Failed to record visit", slog.Any("error", err))
		if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "busy") {
			return ctx.Status(599).JSON(fiber.Map{}) // custom status code
		}
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record visit",
		})
	}

	return ctx.Status(http.StatusCreated).JSON(fiber.Map{
		"visitId":   visitID,
		"visitorId": visitorID,
	})
}

// CreateClickPublicAPIHandler records one link click. It always answers 202:
// click reports are fire-and-forget from the page script, and a stale or
// missing visit reference is not the visitor's problem.
func CreateClickPublicAPIHandler(ctx *cartridge.Context) error {
	var params CreateClickParams
	if err := ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse click request", slog.Any("error", err))
		return ctx.SendStatus(http.StatusAccepted)
	}

	if params.URL == "" {
		ctx.Logger.Debug("Dropping click without link URL")
		return ctx.SendStatus(http.StatusAccepted)
	}

	if err := analytics.RecordClick(ctx.DBManager, ctx.Logger, params.VisitID, params.URL); err != nil {
		ctx.Logger.Error("Failed to record link click",
			slog.String("link", params.URL),
			slog.Any("error", err))
	}

	return ctx.SendStatus(http.StatusAccepted)
}
