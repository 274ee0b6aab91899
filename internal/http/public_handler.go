package http

import (
	"encoding/json"
	"strings"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/inertia"

	"linkhub/internal/config"
	"linkhub/internal/geo"
	"linkhub/internal/links"
	"linkhub/internal/settings"
	"linkhub/internal/themes"
)

// pagePayload is the data handed to the page, either as Inertia props or as
// an injected global for custom themes.
type pagePayload struct {
	Profile   settings.Profile `json:"profile"`
	Links     []links.Link     `json:"links"`
	IconLinks []links.IconLink `json:"iconLinks"`
	Palette   themes.Palette   `json:"palette"`
}

// PublicPageAction renders the visitor-facing page. Links blocked for the
// visitor's country are filtered out server-side so they never reach the
// client at all.
func PublicPageAction(ctx *cartridge.Context) error {
	db := ctx.DB()
	cfg := config.GetConfig()

	country := geo.ResolveCountry(ctx.Logger, ctx.Get(geo.CountryHeader), ctx.IP())

	visible, err := links.VisibleLinks(db, country)
	if err != nil {
		ctx.Logger.Error("Failed to load links for public page", slog.Any("error", err))
		visible = []links.Link{}
	}

	icons, err := links.GetIconLinks(db)
	if err != nil {
		ctx.Logger.Error("Failed to load icon links for public page", slog.Any("error", err))
		icons = []links.IconLink{}
	}

	profile := settings.GetProfile(db)

	payload := pagePayload{
		Profile:   profile,
		Links:     visible,
		IconLinks: icons,
		Palette:   themes.DerivePalette(profile.ContainerColor),
	}

	if profile.ActiveTheme != "" {
		content, err := themes.Load(cfg.ThemesDirectory, profile.ActiveTheme)
		if err == nil {
			ctx.Type("html")
			return ctx.SendString(renderThemedPage(content, payload))
		}
		// Fall back to the built-in page so a broken theme never blanks the site
		ctx.Logger.Error("Failed to load active theme",
			slog.String("theme", profile.ActiveTheme),
			slog.Any("error", err))
	}

	return inertia.RenderPage(ctx.Ctx, "Home", inertia.Props{
		"profile":   payload.Profile,
		"links":     payload.Links,
		"iconLinks": payload.IconLinks,
		"palette":   payload.Palette,
	})
}

// renderThemedPage assembles a standalone HTML document from the theme files,
// injecting the stylesheet and page data into head and the script before the
// closing body tag.
func renderThemedPage(content *themes.Content, payload pagePayload) string {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}

	head := "<style>" + content.CSS + "</style>\n" +
		"<script>window.__PAGE_DATA__ = " + string(data) + ";</script>\n</head>"
	body := "<script>" + content.JS + "</script>\n</body>"

	html := content.HTML
	if strings.Contains(html, "</head>") {
		html = strings.Replace(html, "</head>", head, 1)
	} else {
		html = head + html
	}
	if strings.Contains(html, "</body>") {
		html = strings.Replace(html, "</body>", body, 1)
	} else {
		html = html + body
	}
	return html
}
