package routes

import (
	"github.com/Luuiskame/cubicular-api/internal/config"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/handler"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice  *handler.InvoiceHandler
	Render   *handler.RenderHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter; unconfigured limits fall back to defaults
		limiterCfg := middleware.DefaultRateLimiterConfig()
		if deps.Cfg.RateLimit.Requests > 0 && deps.Cfg.RateLimit.Duration > 0 {
			limiterCfg.RequestsPerSecond = float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration)
			limiterCfg.BurstSize = deps.Cfg.RateLimit.Requests
		}
		rateLimiter := middleware.NewClientRateLimiter(limiterCfg)
		v1.Use(rateLimiter.Middleware())

		registerInvoiceRoutes(v1, h)

		// Settings
		v1.GET("/settings", h.Settings.GetSettings)
		v1.PUT("/settings", h.Settings.UpdateSettings)
	}

	return router
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers) {
	invoice := v1.Group("/invoice")
	{
		invoice.GET("", h.Invoice.GetInvoice)
		invoice.PUT("/company", h.Invoice.UpdateCompany)
		invoice.PUT("/client", h.Invoice.UpdateClient)
		invoice.PUT("/meta", h.Invoice.UpdateMeta)

		invoice.POST("/items", h.Invoice.AddItem)
		invoice.PUT("/items/:id", h.Invoice.UpdateItem)
		invoice.DELETE("/items/:id", h.Invoice.RemoveItem)

		invoice.PUT("/adjustments/:kind", h.Invoice.SetAdjustment)
		invoice.DELETE("/adjustments/:kind", h.Invoice.RemoveAdjustment)

		// Rendered views
		invoice.GET("/view", h.Render.View)
		invoice.GET("/export", h.Render.Export)
	}
}
