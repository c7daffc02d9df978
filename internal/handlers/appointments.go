package handlers

import (
	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/middleware"
	"patient-portal-server/internal/services"
	"patient-portal-server/internal/utils"
)

// currentUser returns the authenticated user id, answering 401 when absent.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
	}
	return userID, ok
}

// AppointmentHandler handles doctor directory, availability and appointment requests.
type AppointmentHandler struct {
	Doctors      *services.DoctorService
	Appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(doctors *services.DoctorService, appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Doctors: doctors, Appointments: appointments}
}

// GetDoctors lists every doctor.
func (h *AppointmentHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Doctors.ListDoctors(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"doctors": doctors})
}

// GetDoctor returns one doctor.
func (h *AppointmentHandler) GetDoctor(c *gin.Context) {
	doctor, err := h.Doctors.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"doctor": doctor})
}

// GetAvailableSlots handles GET /available-slots?doctorId=&date=.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.Appointments.AvailableSlots(c.Request.Context(), c.Query("doctorId"), c.Query("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !slots.WorkingDay {
		utils.Success(c, "Doctor is not available on this day", gin.H{"availableSlots": slots})
		return
	}
	utils.Success(c, "", gin.H{"availableSlots": slots})
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// Required fields are checked by the service so the error names all of them.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
	Notes    string `json:"notes"`
}

// CreateAppointment books a slot for the caller.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Create(c.Request.Context(), userID, services.CreateAppointmentInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment scheduled successfully", gin.H{"appointment": appointment})
}

// GetAppointments lists the caller's appointments, optionally filtered by ?status=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	appointments, err := h.Appointments.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"appointments": appointments})
}

// GetUpcomingAppointment returns the caller's next scheduled appointment or null.
func (h *AppointmentHandler) GetUpcomingAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	appointment, err := h.Appointments.Upcoming(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"appointment": appointment})
}

// GetAppointment returns one of the caller's appointments.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	appointment, err := h.Appointments.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"appointment": appointment})
}

// UpdateAppointmentRequest represents the request body for rescheduling or
// editing notes. Omitted fields are left unchanged.
type UpdateAppointmentRequest struct {
	Date     *string `json:"date"`
	TimeSlot *string `json:"timeSlot"`
	Notes    *string `json:"notes"`
}

// UpdateAppointment reschedules an appointment and/or edits its notes.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Update(c.Request.Context(), c.Param("id"), userID, services.UpdateAppointmentInput{
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", gin.H{"appointment": appointment})
}

// CancelAppointment cancels one of the caller's appointments.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	appointment, err := h.Appointments.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", gin.H{"appointment": appointment})
}
