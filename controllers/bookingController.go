package controllers

import (
	"MediBook/handlers"
	"MediBook/middlewares"
	"MediBook/models"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes wires the doctor discovery and appointment routes.
// Discovery is public; booking and lifecycle operations require a token, with
// the patient or doctor role enforced where only one side may act.
func SetupBookingRoutes(router *gin.Engine, doctorHandler *handlers.DoctorHandler, appointmentHandler *handlers.AppointmentHandler) {
	// Public discovery routes
	router.GET("/doctors", doctorHandler.List)
	router.GET("/doctors/:doctor_id", doctorHandler.Get)
	router.GET("/doctors/:doctor_id/availability", doctorHandler.ListAvailability)
	router.GET("/doctors/:doctor_id/slots", appointmentHandler.AvailableSlots)
	router.GET("/specializations", doctorHandler.Specializations)

	// Patient routes
	patientGroup := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.UserTypeAuthMiddleware(models.UserTypePatient),
	)
	{
		patientGroup.POST("/appointments", appointmentHandler.Book)
		patientGroup.GET("/dashboard/patient", appointmentHandler.PatientDashboard)
	}

	// Doctor routes
	doctorGroup := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.UserTypeAuthMiddleware(models.UserTypeDoctor),
	)
	{
		doctorGroup.PUT("/doctor/availability", doctorHandler.DeclareAvailability)
		doctorGroup.PUT("/doctor/status", doctorHandler.SetAvailable)
		doctorGroup.GET("/dashboard/doctor", appointmentHandler.DoctorDashboard)
	}

	// Routes open to either party of the appointment
	appointmentGroup := router.Group("/appointments").Use(middlewares.TokenAuthMiddleware())
	{
		appointmentGroup.GET("/:appointment_id", appointmentHandler.Get)
		appointmentGroup.PATCH("/:appointment_id/status", appointmentHandler.UpdateStatus)
		appointmentGroup.GET("/:appointment_id/history", appointmentHandler.History)
	}
}
