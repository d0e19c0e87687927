package handlers

import (
	"MediBook/middlewares"
	"MediBook/repositories"
	"MediBook/services"
	"errors"

	"github.com/gin-gonic/gin"
)

// errorStatus maps domain errors to HTTP status codes. Anything unmapped is a
// server fault.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrPatientNotFound),
		errors.Is(err, repositories.ErrDoctorNotFound),
		errors.Is(err, repositories.ErrTimeSlotNotFound),
		errors.Is(err, repositories.ErrAppointmentNotFound),
		errors.Is(err, repositories.ErrAvailabilityNotFound):
		return 404
	case errors.Is(err, repositories.ErrSlotTaken),
		errors.Is(err, repositories.ErrEmailTaken),
		errors.Is(err, repositories.ErrUsernameTaken),
		errors.Is(err, repositories.ErrLicenseTaken),
		errors.Is(err, services.ErrDoctorUnavailable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAppointmentPassed):
		return 409
	case errors.Is(err, services.ErrNotAllowed):
		return 403
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrPastDate),
		errors.Is(err, services.ErrInvalidStatus):
		return 400
	default:
		return 500
	}
}

// respondError writes the error with its mapped status. Unexpected errors are
// logged server-side and the client gets a generic message.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == 500 {
		middlewares.HttpError(c, "Internal server error", status, err)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
