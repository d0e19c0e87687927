package repositories

import "errors"

// Domain errors returned by the repository layer. Services and handlers match
// on these with errors.Is; anything else is an unexpected storage failure.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrTimeSlotNotFound     = errors.New("time slot not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAvailabilityNotFound = errors.New("no availability declared for this weekday")

	ErrSlotTaken     = errors.New("this time slot is already booked")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrLicenseTaken  = errors.New("license number already registered")
)
