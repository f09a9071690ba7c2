package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tablebook/internal/handler/api"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	availabilityHandler *api.AvailabilityHandler,
	reservationHandler *api.ReservationHandler,
	blockedTimeHandler *api.BlockedTimeHandler,
	settingsHandler *api.SettingsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, availabilityHandler, reservationHandler, blockedTimeHandler, settingsHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	reservationHandler *api.ReservationHandler,
	blockedTimeHandler *api.BlockedTimeHandler,
	settingsHandler *api.SettingsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Public booking surface: availability, booking, code-based lookup and
		// cancellation. No authentication, tenant comes from the header.
		public := apiGroup.Group("")
		public.Use(middleware.RequireRestaurant())
		{
			addRoutes(public, []route{
				{Method: http.MethodGet, Path: "/settings", Handler: settingsHandler.GetPublic},
				{Method: http.MethodGet, Path: "/availability", Handler: availabilityHandler.Check},
				{Method: http.MethodPost, Path: "/reservations", Handler: reservationHandler.Create},
				{Method: http.MethodGet, Path: "/reservations/lookup", Handler: reservationHandler.Lookup},
				{Method: http.MethodPost, Path: "/reservations/cancel", Handler: reservationHandler.CancelByCode},
			})
		}

		dashboard := apiGroup.Group("/dashboard")
		dashboard.Use(authMiddleware.RequireAuth())
		dashboard.Use(middleware.RequireRestaurant())
		{
			addRoutes(dashboard, []route{
				{Method: http.MethodGet, Path: "/settings", Handler: settingsHandler.Get},
				{Method: http.MethodPut, Path: "/settings", Handler: settingsHandler.Update},

				{Method: http.MethodGet, Path: "/reservations", Handler: reservationHandler.List},
				{Method: http.MethodPost, Path: "/reservations", Handler: reservationHandler.CreateByStaff},
				{Method: http.MethodGet, Path: "/reservations/today", Handler: reservationHandler.Today},
				{Method: http.MethodGet, Path: "/reservations/upcoming", Handler: reservationHandler.Upcoming},
				{Method: http.MethodGet, Path: "/reservations/stats", Handler: reservationHandler.Stats},
				{Method: http.MethodGet, Path: "/reservations/:id", Handler: reservationHandler.Get},
				{Method: http.MethodPatch, Path: "/reservations/:id/status", Handler: reservationHandler.Transition},
				{Method: http.MethodPut, Path: "/reservations/:id/table", Handler: reservationHandler.AssignTable},

				{Method: http.MethodGet, Path: "/blocked-times", Handler: blockedTimeHandler.List},
				{Method: http.MethodPost, Path: "/blocked-times", Handler: blockedTimeHandler.Create},
				{Method: http.MethodPut, Path: "/blocked-times/:id", Handler: blockedTimeHandler.Update},
				{Method: http.MethodDelete, Path: "/blocked-times/:id", Handler: blockedTimeHandler.Delete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
