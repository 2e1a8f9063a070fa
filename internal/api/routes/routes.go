// server/internal/api/routes/routes.go
package routes

import (
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"food-facilities-api-server/config"
	"food-facilities-api-server/internal/api/handlers"
	"food-facilities-api-server/internal/api/middleware"
	"food-facilities-api-server/internal/search"
	"food-facilities-api-server/internal/socket"
	"food-facilities-api-server/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires the search API, the live-search websocket, health and
// the static search page.
func SetupRouter(
	cfg config.Config,
	searcher search.Searcher,
	dataset handlers.Dataset,
	hub *socket.Hub,
	logger *slog.Logger,
) *gin.Engine {
	router := gin.New()
	// Existing clients call the routes with mixed casing; redirect to the canonical path.
	router.RedirectFixedPath = true
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS)))

	facilityHandler := &handlers.FacilityHandler{Searcher: searcher, Logger: logger}
	webSocketHandler := &handlers.WebSocketHandler{Facilities: facilityHandler, Hub: hub}
	healthHandler := &handlers.HealthHandler{Dataset: dataset, Hub: hub}

	router.GET("/healthz", healthHandler.Health)

	static, _ := fs.Sub(web.Static, "static")
	router.StaticFS("/static", http.FS(static))
	router.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(static))
	})

	api := router.Group("/api/FoodFacilities")
	{
		api.GET("/searchbyapplicantname", facilityHandler.SearchByApplicantName)
		api.GET("/searchbystreetname", facilityHandler.SearchByStreetName)
		api.GET("/searchbylocation", facilityHandler.SearchByLocation)
		api.GET("/ws", webSocketHandler.ServeWs)
	}

	return router
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
