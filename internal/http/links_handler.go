package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/flash"
	"github.com/karloscodes/cartridge/inertia"

	"linkhub/internal/links"
)

// AdminLinksIndexAction renders the link management page.
func AdminLinksIndexAction(ctx *cartridge.Context) error {
	db := ctx.DB()

	allLinks, err := links.GetLinks(db)
	if err != nil {
		ctx.Logger.Error("Failed to load links", slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load links")
	}

	icons, err := links.GetIconLinks(db)
	if err != nil {
		ctx.Logger.Error("Failed to load icon links", slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load icon links")
	}

	return inertia.RenderPage(ctx.Ctx, "Links", inertia.Props{
		"links":     allLinks,
		"iconLinks": icons,
	})
}

// LinkCreateAction handles the add-link form.
func LinkCreateAction(ctx *cartridge.Context) error {
	title := ctx.FormValue("title")
	url := ctx.FormValue("url")

	if err := links.AddLink(ctx.DB(), ctx.Logger, title, url); err != nil {
		ctx.Logger.Error("Failed to add link", slog.String("url", url), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Title and URL are required")
		return ctx.Redirect("/admin/links", fiber.StatusFound)
	}

	flash.SetFlash(ctx.Ctx, "success", "Link added")
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// LinkToggleAction flips a link's enabled state.
func LinkToggleAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid link id")
	}

	if err := links.ToggleLink(ctx.DB(), ctx.Logger, int64(id)); err != nil {
		ctx.Logger.Error("Failed to toggle link", slog.Int("id", id), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to update link")
	}
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// LinkToggleAdultAction flips a link's 18+ flag.
func LinkToggleAdultAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid link id")
	}

	if err := links.ToggleAdult(ctx.DB(), ctx.Logger, int64(id)); err != nil {
		ctx.Logger.Error("Failed to toggle adult flag", slog.Int("id", id), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to update link")
	}
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// LinkBlockCountriesAction replaces a link's blocked-country list.
func LinkBlockCountriesAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid link id")
	}

	countries := ctx.FormValue("countries")
	if err := links.SetBlockedCountries(ctx.DB(), ctx.Logger, int64(id), countries); err != nil {
		ctx.Logger.Error("Failed to set blocked countries",
			slog.Int("id", id),
			slog.String("countries", countries),
			slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to update blocked countries")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Blocked countries updated")
	}
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// LinkDeleteAction removes a link.
func LinkDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid link id")
	}

	if err := links.DeleteLink(ctx.DB(), ctx.Logger, int64(id)); err != nil {
		ctx.Logger.Error("Failed to delete link", slog.Int("id", id), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to delete link")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Link deleted")
	}
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// IconLinkCreateAction handles the add-icon-link form.
func IconLinkCreateAction(ctx *cartridge.Context) error {
	url := ctx.FormValue("url")
	svgCode := ctx.FormValue("svg_code")

	if err := links.AddIconLink(ctx.DB(), ctx.Logger, url, svgCode); err != nil {
		ctx.Logger.Error("Failed to add icon link", slog.String("url", url), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "URL is required")
		return ctx.Redirect("/admin/links", fiber.StatusFound)
	}

	flash.SetFlash(ctx.Ctx, "success", "Icon link added")
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}

// IconLinkDeleteAction removes an icon link.
func IconLinkDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid icon link id")
	}

	if err := links.DeleteIconLink(ctx.DB(), ctx.Logger, int64(id)); err != nil {
		ctx.Logger.Error("Failed to delete icon link", slog.Int("id", id), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to delete icon link")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Icon link deleted")
	}
	return ctx.Redirect("/admin/links", fiber.StatusFound)
}
