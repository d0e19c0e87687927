package services

import "errors"

// Domain errors produced by the service layer. Together with the repository
// sentinels these form the full error taxonomy the handlers translate into
// HTTP responses.
var (
	ErrDoctorUnavailable = errors.New("doctor is not accepting appointments")
	ErrInvalidDate       = errors.New("appointment date must be a valid YYYY-MM-DD date")
	ErrPastDate          = errors.New("appointment date cannot be in the past")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrInvalidTransition = errors.New("status change not allowed from the current status")
	ErrNotAllowed        = errors.New("you are not allowed to modify this appointment")
	ErrAppointmentPassed = errors.New("this appointment's time has already passed")
)
