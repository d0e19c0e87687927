package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"MediBook/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// BookingService validates and creates appointments. Conflict detection is
// two-layered: an advisory status-aware pre-check here, and the partial
// unique index on active bookings enforced at persist time by the repository.
type BookingService struct {
	users        repositories.UserRepository
	doctors      repositories.DoctorRepository
	appointments repositories.AppointmentRepository
}

func NewBookingService(users repositories.UserRepository, doctors repositories.DoctorRepository, appointments repositories.AppointmentRepository) *BookingService {
	return &BookingService{users: users, doctors: doctors, appointments: appointments}
}

// Book creates a pending appointment for the patient with the doctor on the
// given date and catalog slot. Today is bookable; past dates are not.
func (s *BookingService) Book(ctx context.Context, patientID, doctorID int64, date string, timeSlotID int64, symptoms string) (*models.Appointment, error) {
	patient, err := s.users.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsAvailable {
		return nil, ErrDoctorUnavailable
	}

	slot, err := s.appointments.GetTimeSlotByID(ctx, timeSlotID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	today, err := time.ParseInLocation(models.DateLayout, time.Now().Format(models.DateLayout), time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current date: %w", err)
	}
	if day.Before(today) {
		return nil, ErrPastDate
	}

	// A doctor with a declared window for this weekday only accepts slots
	// inside it; a doctor with no declaration accepts any catalog slot.
	availability, err := s.doctors.GetAvailability(ctx, doctorID, models.Weekday(day))
	switch {
	case err == nil:
		if !availability.IsAvailable || !availability.Covers(slot.Time) {
			return nil, ErrDoctorUnavailable
		}
	case errors.Is(err, repositories.ErrAvailabilityNotFound):
		// no declaration for this weekday
	default:
		return nil, err
	}

	// Advisory pre-check; the unique index catches the race this can miss.
	taken, err := s.appointments.HasActiveBooking(ctx, doctorID, date, timeSlotID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repositories.ErrSlotTaken
	}

	appointment := &models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		TimeSlotID:      timeSlotID,
		Status:          models.StatusPending,
		Symptoms:        symptoms,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}
	appointment.TimeSlot = *slot

	s.notifyBooked(patient, doctor, appointment)

	return appointment, nil
}

// AvailableSlots returns the catalog in time order minus slots already held
// by an active booking for the doctor on that date, restricted to the doctor's
// declared window for that weekday. Every listed slot is one Book would accept.
func (s *BookingService) AvailableSlots(ctx context.Context, doctorID int64, date string) ([]models.TimeSlot, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	slots, err := s.appointments.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := s.appointments.BookedSlotIDs(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	// Same weekday rule as Book: a declared window limits the listable slots,
	// a declared day off lists none, no declaration leaves the catalog open.
	availability, err := s.doctors.GetAvailability(ctx, doctorID, models.Weekday(day))
	switch {
	case err == nil:
		if !availability.IsAvailable {
			return []models.TimeSlot{}, nil
		}
	case errors.Is(err, repositories.ErrAvailabilityNotFound):
		availability = nil
	default:
		return nil, err
	}

	available := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if booked[slot.ID] {
			continue
		}
		if availability != nil && !availability.Covers(slot.Time) {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}

// notifyBooked sends best-effort booking emails to both parties. Delivery
// failures are logged, never surfaced to the caller.
func (s *BookingService) notifyBooked(patient *models.Patient, doctor *models.Doctor, appointment *models.Appointment) {
	patientName := patient.User.FirstName
	doctorName := "Dr. " + doctor.User.LastName

	if patient.User.Email != "" {
		if err := utils.SendBookingEmail(patient.User.Email, patientName, doctorName,
			appointment.AppointmentDate, appointment.TimeSlot.Time); err != nil {
			log.Printf("Failed to send booking email to patient: %v", err)
		}
	}
	if doctor.User.Email != "" {
		if err := utils.SendBookingEmail(doctor.User.Email, doctorName, patientName,
			appointment.AppointmentDate, appointment.TimeSlot.Time); err != nil {
			log.Printf("Failed to send booking email to doctor: %v", err)
		}
	}
}
