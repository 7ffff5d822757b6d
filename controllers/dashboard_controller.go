package controllers

import (
	"net/http"
	"time"

	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

// GetStats handles GET /api/dashboard/stats.
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Service.Stats(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
