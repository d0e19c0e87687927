package handlers

import (
	"MediBook/middlewares"
	"MediBook/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	booking      *services.BookingService
	appointments *services.AppointmentService
	auth         *services.AuthService
	doctors      *services.DoctorService
}

func NewAppointmentHandler(booking *services.BookingService, appointments *services.AppointmentService,
	auth *services.AuthService, doctors *services.DoctorService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, appointments: appointments, auth: auth, doctors: doctors}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// Book creates a pending appointment for the authenticated patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		DoctorID   int64  `json:"doctor_id"`
		Date       string `json:"date"`
		TimeSlotID int64  `json:"time_slot_id"`
		Symptoms   string `json:"symptoms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	patient, err := h.auth.GetPatientByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	appointment, err := h.booking.Book(ctx, patient.ID, req.DoctorID, req.Date, req.TimeSlotID, req.Symptoms)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, appointment)
}

// AvailableSlots lists the doctor's free catalog slots for one date.
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctor_id")
	if !ok {
		return
	}
	date := c.Query("date")

	slots, err := h.booking.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"date": date, "slots": slots})
}

// Get returns one appointment. Only its patient or doctor may see it.
func (h *AppointmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	appointmentID, ok := parseIDParam(c, "appointment_id")
	if !ok {
		return
	}

	appointment, err := h.appointments.Get(ctx, appointmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if appointment.Patient.UserID != userID && appointment.Doctor.UserID != userID {
		c.JSON(403, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(200, appointment)
}

// UpdateStatus moves the appointment to a new status on behalf of the
// authenticated user.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	appointmentID, ok := parseIDParam(c, "appointment_id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointments.Transition(ctx, appointmentID, userID, req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, appointment)
}

// History returns the appointment's status audit trail, newest first.
func (h *AppointmentHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	appointmentID, ok := parseIDParam(c, "appointment_id")
	if !ok {
		return
	}

	appointment, err := h.appointments.Get(ctx, appointmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if appointment.Patient.UserID != userID && appointment.Doctor.UserID != userID {
		c.JSON(403, gin.H{"error": "Forbidden"})
		return
	}

	history, err := h.appointments.History(ctx, appointmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"appointmentId": appointmentID, "history": history})
}

// PatientDashboard summarises the authenticated patient's appointments.
func (h *AppointmentHandler) PatientDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.auth.GetPatientByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.appointments.GetPatientDashboard(ctx, patient.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, dashboard)
}

// DoctorDashboard summarises the authenticated doctor's schedule.
func (h *AppointmentHandler) DoctorDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	doctor, err := h.doctors.GetByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.appointments.GetDoctorDashboard(ctx, doctor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, dashboard)
}
