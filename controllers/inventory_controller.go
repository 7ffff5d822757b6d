package controllers

import (
	"net/http"
	"time"

	"reserva-backend/models"
	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
)

type InventoryController struct {
	Service *services.InventoryService
}

func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{Service: service}
}

// --- rooms ---

func (ic *InventoryController) GetRooms(c *gin.Context) {
	rooms, err := ic.Service.ListRooms()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ic *InventoryController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := ic.Service.CreateRoom(room)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONCreated(c, created)
}

func (ic *InventoryController) UpdateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	updated, err := ic.Service.UpdateRoom(c.Param("id"), room)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DeleteRoom cascades to tables, but refuses while any contained table has
// active reservations (409).
func (ic *InventoryController) DeleteRoom(c *gin.Context) {
	if err := ic.Service.DeleteRoom(c.Param("id"), time.Now()); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}

// --- tables ---

func (ic *InventoryController) GetTables(c *gin.Context) {
	tables, err := ic.Service.ListTables()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tables)
}

func (ic *InventoryController) CreateTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := ic.Service.CreateTable(table)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONCreated(c, created)
}

func (ic *InventoryController) UpdateTable(c *gin.Context) {
	var input services.UpdateTableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	updated, err := ic.Service.UpdateTable(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (ic *InventoryController) DeleteTable(c *gin.Context) {
	if err := ic.Service.DeleteTable(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "table deleted"})
}
