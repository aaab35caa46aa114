package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appointmentRepo "sonrisa/database/repository/appointment"
	"sonrisa/services/booking"
	"sonrisa/utils"
)

// AppointmentHandler exposes the appointment list and an HTTP confirmation
// endpoint alongside the websocket request path.
type AppointmentHandler struct {
	Repo         appointmentRepo.AppointmentRepository
	Confirmation booking.ConfirmationService
}

func NewAppointmentHandler(repo appointmentRepo.AppointmentRepository, confirmation booking.ConfirmationService) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo, Confirmation: confirmation}
}

// List handles GET /api/appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = parsed
	}

	appointments, err := h.Repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// Confirm handles POST /api/appointments/:id/confirm.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid appointment id", c.Param("id"))
		return
	}

	result := h.Confirmation.ConfirmAppointment(c.Request.Context(), id)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	c.JSON(status, result)
}
