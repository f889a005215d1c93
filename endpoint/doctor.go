package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// CreateDoctorRequest fields are pointers so that a missing key fails
// validation while an empty string is still accepted.
type CreateDoctorRequest struct {
	Name           *string       `json:"name" binding:"required" example:"Dr. A"`
	Specialty      *string       `json:"specialty" binding:"required" example:"cardio"`
	AvailableSlots []SlotRequest `json:"available_slots" binding:"required,dive"`
}

// SlotRequest is one entry of available_slots. Day must be sent but is
// recomputed from Date on read.
type SlotRequest struct {
	Date  *string  `json:"date" binding:"required" example:"2024-06-10"`
	Day   *string  `json:"day" binding:"required" example:"Monday"`
	Slots []string `json:"slots" binding:"required" example:"09:00,10:00"`
}

func (r CreateDoctorRequest) slotInputs() []model.SlotInput {
	out := make([]model.SlotInput, 0, len(r.AvailableSlots))
	for _, s := range r.AvailableSlots {
		out = append(out, model.SlotInput{Date: *s.Date, Day: *s.Day, Slots: s.Slots})
	}
	return out
}

type CreateDoctorResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message" example:"Doctor profile created successfully."`
	DoctorID string `json:"doctor_id" example:"665f1c2b9d3e4a0012345678"`
}

type DoctorResponse struct {
	Success bool             `json:"success" example:"true"`
	Doctor  model.DoctorView `json:"doctor"`
}

type DoctorListResponse struct {
	Success bool               `json:"success" example:"true"`
	Doctors []model.DoctorView `json:"doctors"`
}

// CreateDoctor godoc
// @Summary      Create a doctor profile
// @Description  Stores a doctor with its available slots. The "day" field of each slot is ignored and recomputed from "date" on read.
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        request body CreateDoctorRequest true "Doctor profile"
// @Success      200 {object} CreateDoctorResponse
// @Failure      400 {object} util.ErrorResponse "Invalid date format"
// @Failure      422 {object} util.ErrorResponse "Invalid request payload"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/doctors/ [post]
func (h *Handler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}

	id, err := h.Doctors.Create(c.Request.Context(), *req.Name, *req.Specialty, req.slotInputs())
	if err != nil {
		h.respondError(c, resourceDoctor, err)
		return
	}

	util.CallSuccessOK(c, CreateDoctorResponse{
		Success:  true,
		Message:  "Doctor profile created successfully.",
		DoctorID: id,
	})
}

// GetDoctor godoc
// @Summary      Get a doctor profile
// @Description  Returns the doctor with its slots sorted by date; weekday names are computed from each date.
// @Tags         Doctor
// @Produce      json
// @Param        id path string true "Doctor ID (24 hex characters)"
// @Success      200 {object} DoctorResponse
// @Failure      400 {object} util.ErrorResponse "Invalid doctor ID format"
// @Failure      404 {object} util.ErrorResponse "Doctor not found"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/doctors/{id} [get]
func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.Doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, resourceDoctor, err)
		return
	}
	util.CallSuccessOK(c, DoctorResponse{Success: true, Doctor: doctor})
}

// ListDoctors godoc
// @Summary      List doctor profiles
// @Tags         Doctor
// @Produce      json
// @Success      200 {object} DoctorListResponse
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/doctors/ [get]
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		h.respondError(c, resourceDoctor, err)
		return
	}
	if doctors == nil {
		doctors = []model.DoctorView{}
	}
	util.CallSuccessOK(c, DoctorListResponse{Success: true, Doctors: doctors})
}
