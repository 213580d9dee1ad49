package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"adboard/internal/config"
	"adboard/internal/http"
)

// apiCORSConfig returns the standard CORS configuration for the JSON API.
// Dashboards may be embedded or served from a different origin than the API.
var apiCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,DELETE,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()

	// Helper to conditionally apply rate limiting (only in production).
	// In development/test, rate limiting would interfere with testing.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Rate limiter for the read API (120 requests per minute per IP).
	// Dashboards with many widgets fire parallel data requests on load.
	apiRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(120),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Stricter rate limiter for the sync trigger (5 requests per minute).
	// Each trigger fans out into platform API calls for every campaign.
	syncRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(5),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	apiConfig := &cartridge.RouteConfig{
		EnableCORS:         true,
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware:   []fiber.Handler{apiRateLimiter},
		CORSConfig:         apiCORSConfig,
	}

	syncConfig := &cartridge.RouteConfig{
		EnableCORS:         true,
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware:   []fiber.Handler{syncRateLimiter},
		CORSConfig:         apiCORSConfig,
	}

	// === ROOT ROUTES ===

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === ACCOUNT AND CAMPAIGN ROUTES ===
	srv.Get("/api/v1/accounts", http.AccountsIndexAction, apiConfig)
	srv.Get("/api/v1/campaigns", http.CampaignsIndexAction, apiConfig)
	srv.Get("/api/v1/campaigns/:id", http.CampaignShowAction, apiConfig)
	srv.Get("/api/v1/campaigns/:id/insights", http.CampaignInsightsAction, apiConfig)
	srv.Post("/api/v1/campaigns/:id/insights", http.CampaignIngestAction, apiConfig)

	// === WIDGET DATA ===
	srv.Post("/api/v1/widgets/data", http.WidgetDataAction, apiConfig)
	srv.Options("/api/v1/widgets/data", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, apiConfig)

	// === DASHBOARD ROUTES ===
	srv.Get("/api/v1/dashboards", http.DashboardsIndexAction, apiConfig)
	srv.Post("/api/v1/dashboards", http.DashboardCreateAction, apiConfig)
	srv.Get("/api/v1/dashboards/templates", http.DashboardTemplatesAction, apiConfig)
	srv.Post("/api/v1/dashboards/templates/:key", http.DashboardFromTemplateAction, apiConfig)
	srv.Post("/api/v1/dashboards/import", http.DashboardImportAction, apiConfig)
	srv.Get("/api/v1/dashboards/:id", http.DashboardShowAction, apiConfig)
	srv.Post("/api/v1/dashboards/:id", http.DashboardUpdateAction, apiConfig)
	srv.Delete("/api/v1/dashboards/:id", http.DashboardDeleteAction, apiConfig)
	srv.Get("/api/v1/dashboards/:id/export", http.DashboardExportAction, apiConfig)

	// === SYNC ROUTES ===
	srv.Post("/api/v1/sync", http.SyncTriggerAction, syncConfig)
}
