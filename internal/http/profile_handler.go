package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/flash"
	"github.com/karloscodes/cartridge/inertia"

	"linkhub/internal/config"
	"linkhub/internal/settings"
	"linkhub/internal/themes"
)

// AdminProfileAction renders the profile and appearance page.
func AdminProfileAction(ctx *cartridge.Context) error {
	db := ctx.DB()
	cfg := config.GetConfig()

	profile := settings.GetProfile(db)

	available, err := themes.Discover(cfg.ThemesDirectory)
	if err != nil {
		ctx.Logger.Error("Failed to discover themes", slog.Any("error", err))
		available = []themes.Theme{}
	}

	return inertia.RenderPage(ctx.Ctx, "Profile", inertia.Props{
		"profile": profile,
		"palette": themes.DerivePalette(profile.ContainerColor),
		"themes":  available,
	})
}

// ProfileUpdateAction stores the owner-editable profile fields.
func ProfileUpdateAction(ctx *cartridge.Context) error {
	err := settings.UpdateProfile(ctx.DB(), ctx.Logger,
		ctx.FormValue("username"),
		ctx.FormValue("profile_pic_url"),
		ctx.FormValue("bio"),
		ctx.FormValue("page_title"),
	)
	if err != nil {
		ctx.Logger.Error("Failed to update profile", slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to update profile")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Profile updated")
	}
	return ctx.Redirect("/admin/profile", fiber.StatusFound)
}

// ContainerColorUpdateAction stores the base appearance color.
func ContainerColorUpdateAction(ctx *cartridge.Context) error {
	color := ctx.FormValue("color")

	if err := settings.UpdateContainerColor(ctx.DB(), ctx.Logger, color); err != nil {
		ctx.Logger.Error("Failed to update container color",
			slog.String("color", color),
			slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Color must be a #RRGGBB value")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Color updated")
	}
	return ctx.Redirect("/admin/profile", fiber.StatusFound)
}

// ThemeSelectAction activates a discovered theme, or deactivates theming when
// the name is empty.
func ThemeSelectAction(ctx *cartridge.Context) error {
	name := ctx.FormValue("theme")
	cfg := config.GetConfig()

	if name != "" {
		// Only accept themes that actually exist on disk
		if _, err := themes.Load(cfg.ThemesDirectory, name); err != nil {
			ctx.Logger.Error("Rejected unknown theme", slog.String("theme", name), slog.Any("error", err))
			flash.SetFlash(ctx.Ctx, "error", "Unknown theme")
			return ctx.Redirect("/admin/profile", fiber.StatusFound)
		}
	}

	if err := settings.SetActiveTheme(ctx.DB(), ctx.Logger, name); err != nil {
		ctx.Logger.Error("Failed to set active theme", slog.String("theme", name), slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Failed to set theme")
	} else {
		flash.SetFlash(ctx.Ctx, "success", "Theme updated")
	}
	return ctx.Redirect("/admin/profile", fiber.StatusFound)
}
