package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// AppointmentRequest is the body of both booking and replacement. Every key
// must be present, any string value is accepted.
// doctor_id is not checked against the doctors collection.
type AppointmentRequest struct {
	DoctorID *string `json:"doctor_id" binding:"required" example:"665f1c2b9d3e4a0012345678"`
	Date     *string `json:"date" binding:"required" example:"2024-06-10"`
	TimeSlot *string `json:"time_slot" binding:"required" example:"09:00"`
}

type AppointmentResponse struct {
	Success       bool   `json:"success" example:"true"`
	Message       string `json:"message" example:"Appointment booked successfully"`
	AppointmentID string `json:"appointment_id" example:"665f1c2b9d3e4a0012345678"`
}

type AppointmentListResponse struct {
	Success      bool                    `json:"success" example:"true"`
	Appointments []model.AppointmentView `json:"appointments"`
}

type DeleteResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Appointment deleted successfully"`
}

// ListAppointments godoc
// @Summary      List appointments
// @Tags         Appointment
// @Produce      json
// @Success      200 {object} AppointmentListResponse
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/appointments [get]
func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context())
	if err != nil {
		h.respondError(c, resourceAppointment, err)
		return
	}

	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, a.View())
	}
	util.CallSuccessOK(c, AppointmentListResponse{Success: true, Appointments: views})
}

// CreateAppointment godoc
// @Summary      Book an appointment
// @Description  Double booking of the same doctor, date and slot is allowed.
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        request body AppointmentRequest true "Booking"
// @Success      200 {object} AppointmentResponse
// @Failure      422 {object} util.ErrorResponse "Invalid request payload"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/appointments [post]
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}

	id, err := h.Appointments.Create(c.Request.Context(), *req.DoctorID, *req.Date, *req.TimeSlot)
	if err != nil {
		h.respondError(c, resourceAppointment, err)
		return
	}
	util.CallSuccessOK(c, AppointmentResponse{
		Success:       true,
		Message:       "Appointment booked successfully",
		AppointmentID: id,
	})
}

// ReplaceAppointment godoc
// @Summary      Update an appointment
// @Description  Replaces the appointment with a new record. The returned appointment_id differs from the one in the path.
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID (24 hex characters)"
// @Param        request body AppointmentRequest true "New booking"
// @Success      200 {object} AppointmentResponse
// @Failure      400 {object} util.ErrorResponse "Invalid appointment ID format"
// @Failure      404 {object} util.ErrorResponse "Appointment not found"
// @Failure      422 {object} util.ErrorResponse "Invalid request payload"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/appointments/{id} [put]
func (h *Handler) ReplaceAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}

	newID, err := h.Appointments.Replace(c.Request.Context(), c.Param("id"), *req.DoctorID, *req.Date, *req.TimeSlot)
	if err != nil {
		h.respondError(c, resourceAppointment, err)
		return
	}
	util.CallSuccessOK(c, AppointmentResponse{
		Success:       true,
		Message:       "Appointment updated successfully",
		AppointmentID: newID,
	})
}

// DeleteAppointment godoc
// @Summary      Cancel an appointment
// @Tags         Appointment
// @Produce      json
// @Param        id path string true "Appointment ID (24 hex characters)"
// @Success      200 {object} DeleteResponse
// @Failure      400 {object} util.ErrorResponse "Invalid appointment ID format"
// @Failure      404 {object} util.ErrorResponse "Appointment not found"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/appointments/{id} [delete]
func (h *Handler) DeleteAppointment(c *gin.Context) {
	acknowledged, err := h.Appointments.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, resourceAppointment, err)
		return
	}
	util.CallSuccessOK(c, DeleteResponse{
		Success: acknowledged,
		Message: "Appointment deleted successfully",
	})
}
