package models

import (
	"time"
)

// User types
const (
	UserTypePatient = "patient"
	UserTypeDoctor  = "doctor"
)

// Specializations a doctor can register under
var Specializations = []string{
	"general",
	"cardiology",
	"dermatology",
	"orthopedics",
	"pediatrics",
	"gynecology",
	"neurology",
	"psychiatry",
}

// IsValidSpecialization reports whether s is in the specialization catalog.
func IsValidSpecialization(s string) bool {
	for _, known := range Specializations {
		if known == s {
			return true
		}
	}
	return false
}

// User represents a registered account. The user type is fixed at
// registration: an account is either a patient or a doctor, never both.
type User struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Username    string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email       string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password    string    `gorm:"size:255;not null;column:password" json:"-"`
	UserType    string    `gorm:"size:10;not null;check:user_type IN ('patient', 'doctor');column:user_type" json:"user_type"`
	FirstName   string    `gorm:"size:100;column:first_name" json:"first_name"`
	LastName    string    `gorm:"size:100;column:last_name" json:"last_name"`
	Phone       string    `gorm:"size:15;column:phone" json:"phone"`
	DateOfBirth string    `gorm:"size:10;column:date_of_birth" json:"date_of_birth"`
	Address     string    `gorm:"type:text;column:address" json:"address"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Patient extends a User account with medical profile fields.
type Patient struct {
	ID               int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID           int64  `gorm:"not null;unique;index;column:user_id" json:"user_id"`
	User             User   `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Gender           string `gorm:"size:1;check:gender IN ('M', 'F', 'O', '');column:gender" json:"gender"`
	EmergencyContact string `gorm:"size:15;column:emergency_contact" json:"emergency_contact"`
	BloodGroup       string `gorm:"size:5;column:blood_group" json:"blood_group"`
	MedicalHistory   string `gorm:"type:text;column:medical_history" json:"medical_history"`
}

func (Patient) TableName() string {
	return "patients"
}

// Doctor extends a User account with practice fields. The license number is
// globally unique.
type Doctor struct {
	ID              int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID          int64         `gorm:"not null;unique;index;column:user_id" json:"user_id"`
	User            User          `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Specialization  string        `gorm:"size:20;not null;index;column:specialization" json:"specialization"`
	LicenseNumber   string        `gorm:"size:50;not null;unique;column:license_number" json:"license_number"`
	ExperienceYears int           `gorm:"not null;check:experience_years >= 0;column:experience_years" json:"experience_years"`
	ConsultationFee float64       `gorm:"type:decimal(8,2);not null;check:consultation_fee >= 0;column:consultation_fee" json:"consultation_fee"`
	Bio             string        `gorm:"type:text;column:bio" json:"bio"`
	IsAvailable     bool          `gorm:"not null;default:true;column:is_available" json:"is_available"`
	Appointments    []Appointment `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctors"
}
