package utils

import (
	"MediBook/models"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrPhoneTooShort      = errors.New("phone number must be at least 10 digits")
	ErrInvalidResetCode   = errors.New("invalid reset code")
)

// ValidateAccount validates the base account fields shared by patient and
// doctor registration.
func ValidateAccount(user models.User) error {
	return validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
		validation.Field(&user.Phone, validation.By(validatePhone)),
		validation.Field(&user.DateOfBirth, validation.Date(models.DateLayout).Error("date of birth must be YYYY-MM-DD")),
	)
}

// ValidatePatientRegistration validates a patient registration request.
func ValidatePatientRegistration(user models.User, patient models.Patient) error {
	if err := ValidateAccount(user); err != nil {
		return err
	}
	return validation.ValidateStruct(&patient,
		validation.Field(&patient.Gender, validation.In("M", "F", "O")),
		validation.Field(&patient.EmergencyContact, validation.By(validatePhone)),
	)
}

// ValidateDoctorRegistration validates a doctor registration request.
func ValidateDoctorRegistration(user models.User, doctor models.Doctor) error {
	if err := ValidateAccount(user); err != nil {
		return err
	}
	specializations := make([]interface{}, len(models.Specializations))
	for i, s := range models.Specializations {
		specializations[i] = s
	}
	return validation.ValidateStruct(&doctor,
		validation.Field(&doctor.Specialization, validation.Required, validation.In(specializations...)),
		validation.Field(&doctor.LicenseNumber, validation.Required, validation.Length(1, 50)),
		validation.Field(&doctor.ExperienceYears, validation.Min(0)),
		validation.Field(&doctor.ConsultationFee, validation.Min(0.0)),
	)
}

// ValidateProfileUpdate validates the editable account fields.
func ValidateProfileUpdate(user models.User) error {
	return validation.ValidateStruct(&user,
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Phone, validation.By(validatePhone)),
		validation.Field(&user.DateOfBirth, validation.Date(models.DateLayout).Error("date of birth must be YYYY-MM-DD")),
	)
}

// ValidateAvailabilityWindow checks a weekday availability declaration:
// weekday in range, HH:MM times, start before end.
func ValidateAvailabilityWindow(availability models.DoctorAvailability) error {
	if err := validation.ValidateStruct(&availability,
		validation.Field(&availability.Weekday, validation.Min(0), validation.Max(6)),
		validation.Field(&availability.StartTime, validation.Required, validation.Date(models.TimeLayout).Error("start time must be HH:MM")),
		validation.Field(&availability.EndTime, validation.Required, validation.Date(models.TimeLayout).Error("end time must be HH:MM")),
	); err != nil {
		return err
	}
	if availability.StartTime >= availability.EndTime {
		return errors.New("start time must be before end time")
	}
	return nil
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	return validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}

// validatePhone accepts an empty phone; a provided one needs at least 10 digits.
func validatePhone(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	if len(phone) < 10 {
		return ErrPhoneTooShort
	}
	return nil
}
