package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"MediBook/utils"
	"context"
)

// DoctorService covers doctor discovery and availability management.
type DoctorService struct {
	doctors repositories.DoctorRepository
}

func NewDoctorService(doctors repositories.DoctorRepository) *DoctorService {
	return &DoctorService{doctors: doctors}
}

// ListAvailable returns doctors accepting bookings, optionally filtered by
// specialization.
func (s *DoctorService) ListAvailable(ctx context.Context, specialization string) ([]models.Doctor, error) {
	if specialization != "" && !models.IsValidSpecialization(specialization) {
		return []models.Doctor{}, nil
	}
	return s.doctors.ListAvailable(ctx, specialization)
}

func (s *DoctorService) GetByID(ctx context.Context, doctorID int64) (*models.Doctor, error) {
	return s.doctors.GetByID(ctx, doctorID)
}

func (s *DoctorService) GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	return s.doctors.GetByUserID(ctx, userID)
}

// SetAvailable flips the doctor-controlled availability flag.
func (s *DoctorService) SetAvailable(ctx context.Context, doctorID int64, available bool) error {
	return s.doctors.SetAvailable(ctx, doctorID, available)
}

// DeclareAvailability validates and upserts the doctor's window for one
// weekday.
func (s *DoctorService) DeclareAvailability(ctx context.Context, availability *models.DoctorAvailability) error {
	if err := utils.ValidateAvailabilityWindow(*availability); err != nil {
		return err
	}
	if _, err := s.doctors.GetByID(ctx, availability.DoctorID); err != nil {
		return err
	}
	return s.doctors.SetAvailability(ctx, availability)
}

// ListAvailability returns the doctor's declared weekday windows.
func (s *DoctorService) ListAvailability(ctx context.Context, doctorID int64) ([]models.DoctorAvailability, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.doctors.ListAvailability(ctx, doctorID)
}
