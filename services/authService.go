package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"MediBook/utils"
	"context"
	"errors"
	"fmt"
)

// AuthService handles registration, authentication and profile management.
// Registration creates the account and its role profile atomically; the role
// is fixed for the lifetime of the account.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterPatient validates and creates a patient account with its profile.
func (s *AuthService) RegisterPatient(ctx context.Context, user *models.User, patient *models.Patient) error {
	if err := utils.ValidatePatientRegistration(*user, *patient); err != nil {
		return fmt.Errorf("invalid registration data: %w", err)
	}
	if err := s.checkIdentifiersFree(ctx, user); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	return s.users.CreatePatient(ctx, user, patient)
}

// RegisterDoctor validates and creates a doctor account with its profile.
func (s *AuthService) RegisterDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error {
	if err := utils.ValidateDoctorRegistration(*user, *doctor); err != nil {
		return fmt.Errorf("invalid registration data: %w", err)
	}
	if err := s.checkIdentifiersFree(ctx, user); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	return s.users.CreateDoctor(ctx, user, doctor)
}

// checkIdentifiersFree is advisory; the unique constraints decide races.
func (s *AuthService) checkIdentifiersFree(ctx context.Context, user *models.User) error {
	if taken, err := s.users.EmailExists(ctx, user.Email); err != nil {
		return err
	} else if taken {
		return repositories.ErrEmailTaken
	}
	if taken, err := s.users.UsernameExists(ctx, user.Username); err != nil {
		return err
	} else if taken {
		return repositories.ErrUsernameTaken
	}
	return nil
}

// Authenticate verifies the credentials and returns the account.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, errors.New("invalid email or password")
	}

	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUserByEmail(ctx, email)
}

func (s *AuthService) GetPatientByUserID(ctx context.Context, userID int64) (*models.Patient, error) {
	return s.users.GetPatientByUserID(ctx, userID)
}

// UpdateProfile updates the account's basic contact fields. The user type
// and username are immutable.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User) error {
	if err := utils.ValidateProfileUpdate(*user); err != nil {
		return fmt.Errorf("invalid profile data: %w", err)
	}
	return s.users.UpdateUserProfile(ctx, user)
}

// ResetPassword validates the emailed reset code and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, resetCode, newPassword string) error {
	if err := utils.ValidatePasswordReset(resetCode, newPassword); err != nil {
		return err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	stored, err := utils.GetResetCode(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil || *stored != resetCode {
		return utils.ErrInvalidResetCode
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	return utils.DeleteResetCode(ctx, email)
}
