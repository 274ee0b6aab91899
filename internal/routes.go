package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "linkhub/api/v1"
	"linkhub/internal/config"
	"linkhub/internal/http"
)

// publicCORSConfig is the permissive CORS setup shared by the public tracking
// endpoints, which the page script calls cross-origin when the page sits
// behind a CDN domain.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, Referrer, User-Agent",
}

// SetupSession configures session management on the server.
func SetupSession(srv *cartridge.Server) {
	cfg := config.GetConfig()
	sessionMgr := cartridge.NewSessionManager(cartridge.SessionConfig{
		CookieName: cfg.AppName + "_session",
		Secret:     cfg.GetSessionSecret(),
		TTL:        time.Duration(cfg.GetLoginSessionTimeout()) * time.Second,
		Secure:     cfg.IsProduction(),
		LoginPath:  "/login",
	})
	srv.SetSession(sessionMgr)
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	SetupSession(srv)

	cfg := config.GetConfig()
	sessionMgr := srv.Session()

	// Rate limiting only applies in production; in development and test it
	// would interfere with tooling.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Public tracking API: 70 requests per minute per IP
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Auth endpoints get a stricter limit against brute force attempts
	authRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Tracking API config: CORS runs first so rejected requests still carry
	// CORS headers. Writes are serialized by sqlite.PerformWrite already.
	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	publicPageConfig := &cartridge.RouteConfig{
		CustomMiddleware:   []fiber.Handler{publicRateLimiter},
		EnableSecFetchSite: cartridge.Bool(false),
	}

	adminConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{
			sessionMgr.Middleware(),
		},
	}

	// === PUBLIC PAGE ===
	srv.Get("/", http.PublicPageAction, publicPageConfig)

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === PUBLIC TRACKING API ===
	srv.Post("/x/api/v1/visits", v1.CreateVisitPublicAPIHandler, publicAPIConfig)
	srv.Options("/x/api/v1/visits", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)
	srv.Post("/x/api/v1/clicks", v1.CreateClickPublicAPIHandler, publicAPIConfig)
	srv.Options("/x/api/v1/clicks", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)

	// === AUTHENTICATION ROUTES ===
	loginConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{authRateLimiter},
	}
	srv.Get("/login", http.RenderLoginAction)
	srv.Post("/login", http.ProcessLoginAction, loginConfig)
	srv.Post("/logout", http.LogoutAction)

	// === PROTECTED ADMIN ROUTES ===
	srv.Get("/admin", http.AdminLinksIndexAction, adminConfig)

	srv.Get("/admin/links", http.AdminLinksIndexAction, adminConfig)
	srv.Post("/admin/links", http.LinkCreateAction, adminConfig)
	srv.Post("/admin/links/:id/toggle", http.LinkToggleAction, adminConfig)
	srv.Post("/admin/links/:id/adult", http.LinkToggleAdultAction, adminConfig)
	srv.Post("/admin/links/:id/countries", http.LinkBlockCountriesAction, adminConfig)
	srv.Post("/admin/links/:id/delete", http.LinkDeleteAction, adminConfig)
	srv.Delete("/admin/links/:id", http.LinkDeleteAction, adminConfig)

	srv.Post("/admin/icon-links", http.IconLinkCreateAction, adminConfig)
	srv.Post("/admin/icon-links/:id/delete", http.IconLinkDeleteAction, adminConfig)
	srv.Delete("/admin/icon-links/:id", http.IconLinkDeleteAction, adminConfig)

	srv.Get("/admin/profile", http.AdminProfileAction, adminConfig)
	srv.Post("/admin/profile", http.ProfileUpdateAction, adminConfig)
	srv.Post("/admin/profile/color", http.ContainerColorUpdateAction, adminConfig)
	srv.Post("/admin/profile/theme", http.ThemeSelectAction, adminConfig)

	srv.Get("/admin/analytics", http.AdminAnalyticsAction, adminConfig)
	srv.Get("/admin/api/analytics", http.AdminAnalyticsDataAction, adminConfig)

	srv.Get("/admin/account", http.AdminAccountPageAction, adminConfig)
	srv.Post("/admin/account/change-password", http.AccountChangePasswordFormAction, adminConfig)

	srv.Get("/admin/api/export", http.TransferExportAction, adminConfig)
	srv.Post("/admin/import", http.TransferImportAction, adminConfig)
}
