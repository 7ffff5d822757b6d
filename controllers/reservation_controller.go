package controllers

import (
	"net/http"

	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{Service: service}
}

// CreateReservation handles POST /api/reservations (public intake).
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input services.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	reservation, err := rc.Service.Create(input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// GetReservations handles GET /api/reservations?date=&status=.
func (rc *ReservationController) GetReservations(c *gin.Context) {
	reservations, err := rc.Service.List(c.Query("date"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservations)
}

// GetReservation handles GET /api/reservations/:id.
func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservation, err := rc.Service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// UpdateReservation handles PUT /api/reservations/:id. Moves re-run the
// admission pipeline; contact edits do not.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var input services.UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	reservation, err := rc.Service.Update(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// CancelReservation handles DELETE /api/reservations/:id. Cancellation is
// terminal and frees the table binding immediately.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, err := rc.Service.Cancel(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// ConfirmReservation handles PATCH /api/reservations/:id/confirm.
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	reservation, err := rc.Service.Confirm(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// CompleteReservation handles PATCH /api/reservations/:id/complete.
func (rc *ReservationController) CompleteReservation(c *gin.Context) {
	reservation, err := rc.Service.Complete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}
