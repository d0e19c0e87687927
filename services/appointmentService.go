package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"MediBook/utils"
	"context"
	"log"
	"time"
)

// AppointmentService governs the appointment lifecycle after booking: status
// transitions, the audit trail, and the dashboard views.
type AppointmentService struct {
	users        repositories.UserRepository
	appointments repositories.AppointmentRepository
}

func NewAppointmentService(users repositories.UserRepository, appointments repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{users: users, appointments: appointments}
}

// Transition moves an appointment to newStatus on behalf of the acting user,
// recording one history row. Only the owning doctor may confirm, complete or
// mark no-show; cancellation is open to either owner while the appointment's
// moment has not passed.
func (s *AppointmentService) Transition(ctx context.Context, appointmentID, actorUserID int64, newStatus, reason string) (*models.Appointment, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	isOwningDoctor := appointment.Doctor.UserID == actorUserID
	isOwningPatient := appointment.Patient.UserID == actorUserID

	switch newStatus {
	case models.StatusConfirmed, models.StatusCompleted, models.StatusNoShow:
		if !isOwningDoctor {
			return nil, ErrNotAllowed
		}
	case models.StatusCancelled:
		if !isOwningDoctor && !isOwningPatient {
			return nil, ErrNotAllowed
		}
		if appointment.IsPast(time.Now()) {
			return nil, ErrAppointmentPassed
		}
	}

	if err := s.appointments.UpdateStatusWithHistory(ctx, appointment, newStatus, actorUserID, reason); err != nil {
		return nil, err
	}

	s.notifyStatusChange(appointment, newStatus)

	return appointment, nil
}

// History returns the appointment's audit trail, newest first.
func (s *AppointmentService) History(ctx context.Context, appointmentID int64) ([]models.AppointmentHistory, error) {
	if _, err := s.appointments.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}
	return s.appointments.ListHistory(ctx, appointmentID)
}

// Get returns one appointment with its patient, doctor and slot loaded.
func (s *AppointmentService) Get(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	return s.appointments.GetByID(ctx, appointmentID)
}

// PatientDashboard summarises a patient's appointments.
type PatientDashboard struct {
	UpcomingAppointments []models.Appointment `json:"upcoming_appointments"`
	PastAppointments     []models.Appointment `json:"past_appointments"`
	TotalAppointments    int64                `json:"total_appointments"`
	UpcomingCount        int                  `json:"upcoming_count"`
	PastCount            int64                `json:"past_count"`
}

// DoctorDashboard summarises a doctor's schedule.
type DoctorDashboard struct {
	TodayAppointments    []models.Appointment `json:"today_appointments"`
	UpcomingAppointments []models.Appointment `json:"upcoming_appointments"`
	TodayCount           int                  `json:"today_count"`
	UpcomingCount        int64                `json:"upcoming_count"`
	TotalPatients        int64                `json:"total_patients"`
}

const pastAppointmentsShown = 5
const upcomingAppointmentsShown = 10

// GetPatientDashboard builds the patient view: active upcoming appointments
// from today on, the most recent past ones, and the counts.
func (s *AppointmentService) GetPatientDashboard(ctx context.Context, patientID int64) (*PatientDashboard, error) {
	if _, err := s.users.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	today := time.Now().Format(models.DateLayout)

	upcoming, err := s.appointments.ListUpcomingForPatient(ctx, patientID, today)
	if err != nil {
		return nil, err
	}
	past, err := s.appointments.ListPastForPatient(ctx, patientID, today, pastAppointmentsShown)
	if err != nil {
		return nil, err
	}
	pastCount, err := s.appointments.CountPastForPatient(ctx, patientID, today)
	if err != nil {
		return nil, err
	}
	total, err := s.appointments.CountTotalForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return &PatientDashboard{
		UpcomingAppointments: upcoming,
		PastAppointments:     past,
		TotalAppointments:    total,
		UpcomingCount:        len(upcoming),
		PastCount:            pastCount,
	}, nil
}

// GetDoctorDashboard builds the doctor view: today's active appointments in
// slot order, the next upcoming ones, and the counts.
func (s *AppointmentService) GetDoctorDashboard(ctx context.Context, doctorID int64) (*DoctorDashboard, error) {
	today := time.Now().Format(models.DateLayout)

	todays, err := s.appointments.ListForDoctorOnDate(ctx, doctorID, today)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.ListUpcomingForDoctor(ctx, doctorID, today, upcomingAppointmentsShown)
	if err != nil {
		return nil, err
	}
	upcomingCount, err := s.appointments.CountUpcomingForDoctor(ctx, doctorID, today)
	if err != nil {
		return nil, err
	}
	totalPatients, err := s.appointments.CountDistinctPatientsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return &DoctorDashboard{
		TodayAppointments:    todays,
		UpcomingAppointments: upcoming,
		TodayCount:           len(todays),
		UpcomingCount:        upcomingCount,
		TotalPatients:        totalPatients,
	}, nil
}

// notifyStatusChange emails the patient about the new status, best effort.
func (s *AppointmentService) notifyStatusChange(appointment *models.Appointment, newStatus string) {
	email := appointment.Patient.User.Email
	if email == "" {
		return
	}
	if err := utils.SendStatusChangeEmail(email, appointment.Patient.User.FirstName,
		appointment.AppointmentDate, appointment.TimeSlot.Time, newStatus); err != nil {
		log.Printf("Failed to send status change email: %v", err)
	}
}
