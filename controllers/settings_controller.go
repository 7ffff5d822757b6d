package controllers

import (
	"net/http"

	"reserva-backend/models"
	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Service *services.SettingsService
}

func NewSettingsController(service *services.SettingsService) *SettingsController {
	return &SettingsController{Service: service}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.Service.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings. Invalid windows come back 400;
// an accepted update is visible to the engine as one consistent snapshot.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var input models.Settings
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := sc.Service.Update(input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}
