package controllers

import (
	"net/http"
	"time"

	"reserva-backend/models"
	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
)

type HACCPController struct {
	Service *services.HACCPService
}

func NewHACCPController(service *services.HACCPService) *HACCPController {
	return &HACCPController{Service: service}
}

// GetRecords handles GET /api/haccp?record_type=.
func (hc *HACCPController) GetRecords(c *gin.Context) {
	records, err := hc.Service.ListRecords(c.Query("record_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, records)
}

// CreateRecord handles POST /api/haccp. The log is append-only.
func (hc *HACCPController) CreateRecord(c *gin.Context) {
	var input services.CreateRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	record, err := hc.Service.CreateRecord(input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONCreated(c, record)
}

// GetAlerts handles GET /api/haccp/alerts. Alerts are recomputed per call.
func (hc *HACCPController) GetAlerts(c *gin.Context) {
	alerts, err := hc.Service.Alerts(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// --- equipment ---

func (hc *HACCPController) GetEquipment(c *gin.Context) {
	equipment, err := hc.Service.ListEquipment()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, equipment)
}

func (hc *HACCPController) CreateEquipment(c *gin.Context) {
	var eq models.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := hc.Service.CreateEquipment(eq)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONCreated(c, created)
}

func (hc *HACCPController) DeleteEquipment(c *gin.Context) {
	if err := hc.Service.DeleteEquipment(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "equipment deleted"})
}

// --- spaces ---

func (hc *HACCPController) GetSpaces(c *gin.Context) {
	spaces, err := hc.Service.ListSpaces()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, spaces)
}

func (hc *HACCPController) CreateSpace(c *gin.Context) {
	var sp models.Space
	if err := c.ShouldBindJSON(&sp); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := hc.Service.CreateSpace(sp)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONCreated(c, created)
}

func (hc *HACCPController) DeleteSpace(c *gin.Context) {
	if err := hc.Service.DeleteSpace(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "space deleted"})
}
