package handlers

import (
	"MediBook/middlewares"
	"MediBook/models"
	"MediBook/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctors *services.DoctorService
}

func NewDoctorHandler(doctors *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

// List returns available doctors, optionally filtered by specialization.
func (h *DoctorHandler) List(c *gin.Context) {
	specialization := c.Query("specialization")

	doctors, err := h.doctors.ListAvailable(c.Request.Context(), specialization)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"doctors": doctors})
}

// Specializations returns the fixed specialization catalog.
func (h *DoctorHandler) Specializations(c *gin.Context) {
	c.JSON(200, gin.H{"specializations": models.Specializations})
}

// Get returns one doctor's public profile.
func (h *DoctorHandler) Get(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctor_id")
	if !ok {
		return
	}

	doctor, err := h.doctors.GetByID(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, doctor)
}

// SetAvailable flips the authenticated doctor's accepting-bookings flag.
func (h *DoctorHandler) SetAvailable(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	doctor, err := h.doctors.GetByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.doctors.SetAvailable(ctx, doctor.ID, req.IsAvailable); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"doctorId": doctor.ID, "isAvailable": req.IsAvailable})
}

// DeclareAvailability upserts the authenticated doctor's window for one weekday.
func (h *DoctorHandler) DeclareAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Weekday     int    `json:"weekday"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		IsAvailable bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	doctor, err := h.doctors.GetByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	availability := models.DoctorAvailability{
		DoctorID:    doctor.ID,
		Weekday:     req.Weekday,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	}
	if err := h.doctors.DeclareAvailability(ctx, &availability); err != nil {
		if status := errorStatus(err); status != 500 {
			c.JSON(status, gin.H{"error": err.Error()})
		} else {
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, availability)
}

// ListAvailability returns a doctor's declared weekday windows.
func (h *DoctorHandler) ListAvailability(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctor_id")
	if !ok {
		return
	}

	windows, err := h.doctors.ListAvailability(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"doctorId": doctorID, "availability": windows})
}
