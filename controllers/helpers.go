package controllers

import (
	"errors"
	"net/http"

	"reserva-backend/services"
	"reserva-backend/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError translates service errors onto the HTTP surface.
// Engine rejections are terminal for the request; the reason goes back to
// the caller verbatim so the UI can surface it.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err),
		errors.Is(err, services.ErrClosedDay),
		errors.Is(err, services.ErrOutsideHours):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrNoTableAvailable),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).Error("internal error")
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}
