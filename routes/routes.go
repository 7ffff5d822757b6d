package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reserva-backend/controllers"
	"reserva-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the HTTP surface.
func SetupRouter(
	rc *controllers.ReservationController,
	ic *controllers.InventoryController,
	sc *controllers.SettingsController,
	hc *controllers.HACCPController,
	dc *controllers.DashboardController,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.GetReservations)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.PUT("/:id", rc.UpdateReservation)
			reservations.DELETE("/:id", rc.CancelReservation)
			reservations.PATCH("/:id/confirm", rc.ConfirmReservation)
			reservations.PATCH("/:id/complete", rc.CompleteReservation)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ic.GetRooms)
			rooms.POST("", ic.CreateRoom)
			rooms.PUT("/:id", ic.UpdateRoom)
			rooms.DELETE("/:id", ic.DeleteRoom)
		}

		tables := api.Group("/tables")
		{
			tables.GET("", ic.GetTables)
			tables.POST("", ic.CreateTable)
			tables.PUT("/:id", ic.UpdateTable)
			tables.DELETE("/:id", ic.DeleteTable)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", sc.GetSettings)
			settings.PUT("", sc.UpdateSettings)
		}

		haccp := api.Group("/haccp")
		{
			haccp.GET("", hc.GetRecords)
			haccp.POST("", hc.CreateRecord)
			haccp.GET("/alerts", hc.GetAlerts)
		}

		equipment := api.Group("/equipment")
		{
			equipment.GET("", hc.GetEquipment)
			equipment.POST("", hc.CreateEquipment)
			equipment.DELETE("/:id", hc.DeleteEquipment)
		}

		spaces := api.Group("/spaces")
		{
			spaces.GET("", hc.GetSpaces)
			spaces.POST("", hc.CreateSpace)
			spaces.DELETE("/:id", hc.DeleteSpace)
		}

		api.GET("/dashboard/stats", dc.GetStats)
	}

	return r
}
