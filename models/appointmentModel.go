package models

import (
	"time"

	"gorm.io/gorm"
)

// Date and slot time formats used across the booking flow.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// statusTransitions is the full lifecycle graph. Completed, cancelled and
// no_show are terminal.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// IsValidStatus reports whether s is one of the five appointment statuses.
func IsValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// TimeSlot is a catalog entry for one bookable time of day. The catalog is
// fixed reference data seeded at migration, not per-doctor state.
type TimeSlot struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Time string `gorm:"size:5;not null;unique;column:time" json:"time"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// TimeSlotCatalog lists every bookable half-hour slot: 09:00-12:00 and
// 14:00-18:00.
var TimeSlotCatalog = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
}

// SeedTimeSlots inserts the slot catalog if missing.
func SeedTimeSlots(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range TimeSlotCatalog {
			slot := TimeSlot{Time: t}
			if err := tx.FirstOrCreate(&slot, TimeSlot{Time: t}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DoctorAvailability declares the window in which a doctor accepts bookings
// on one weekday (Monday=0 .. Sunday=6). At most one row per (doctor, weekday).
type DoctorAvailability struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DoctorID    int64  `gorm:"not null;uniqueIndex:idx_doctor_weekday;column:doctor_id" json:"doctor_id"`
	Doctor      Doctor `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
	Weekday     int    `gorm:"not null;check:weekday BETWEEN 0 AND 6;uniqueIndex:idx_doctor_weekday;column:weekday" json:"weekday"`
	StartTime   string `gorm:"size:5;not null;column:start_time" json:"start_time"`
	EndTime     string `gorm:"size:5;not null;column:end_time" json:"end_time"`
	IsAvailable bool   `gorm:"not null;default:true;column:is_available" json:"is_available"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availability"
}

// Covers reports whether slotTime falls inside the declared window,
// end-exclusive. Malformed times never match.
func (a *DoctorAvailability) Covers(slotTime string) bool {
	slot, err := time.Parse(TimeLayout, slotTime)
	if err != nil {
		return false
	}
	start, err := time.Parse(TimeLayout, a.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse(TimeLayout, a.EndTime)
	if err != nil {
		return false
	}
	return !slot.Before(start) && slot.Before(end)
}

// Weekday converts a calendar date to the Monday=0 .. Sunday=6 convention.
func Weekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// Appointment is one booking of a patient with a doctor for a date and a
// catalog slot. Rows are never deleted; cancellation is a status change.
type Appointment struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID       int64     `gorm:"not null;index;column:patient_id" json:"patient_id"`
	Patient         Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	DoctorID        int64     `gorm:"not null;index;column:doctor_id" json:"doctor_id"`
	Doctor          Doctor    `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
	AppointmentDate string    `gorm:"size:10;not null;index;column:appointment_date" json:"appointment_date"`
	TimeSlotID      int64     `gorm:"not null;column:time_slot_id" json:"time_slot_id"`
	TimeSlot        TimeSlot  `gorm:"foreignKey:TimeSlotID;references:ID" json:"time_slot"`
	Status          string    `gorm:"size:10;not null;default:'pending';check:status IN ('pending', 'confirmed', 'completed', 'cancelled', 'no_show');column:status" json:"status"`
	Symptoms        string    `gorm:"type:text;column:symptoms" json:"symptoms"`
	Notes           string    `gorm:"type:text;column:notes" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransitionTo reports whether the lifecycle graph allows moving from the
// current status to newStatus.
func (a *Appointment) CanTransitionTo(newStatus string) bool {
	for _, allowed := range statusTransitions[a.Status] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// Moment combines the appointment date with its slot time. The slot time must
// already be loaded on the model.
func (a *Appointment) Moment() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout,
		a.AppointmentDate+" "+a.TimeSlot.Time, time.Local)
}

// IsPast reports whether the appointment's scheduled moment is before now.
// An unparsable date or slot counts as past.
func (a *Appointment) IsPast(now time.Time) bool {
	moment, err := a.Moment()
	if err != nil {
		return true
	}
	return moment.Before(now)
}

// CanCancel reports whether the appointment is still cancellable: pending or
// confirmed, and not yet past.
func (a *Appointment) CanCancel(now time.Time) bool {
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return false
	}
	return !a.IsPast(now)
}

// AppointmentHistory is one immutable audit record of a status transition.
// Rows are only ever appended.
type AppointmentHistory struct {
	ID            int64       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID int64       `gorm:"not null;index;column:appointment_id" json:"appointment_id"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID;references:ID" json:"-"`
	ChangedByID   int64       `gorm:"not null;column:changed_by_id" json:"changed_by_id"`
	ChangedBy     User        `gorm:"foreignKey:ChangedByID;references:ID" json:"changed_by"`
	OldStatus     string      `gorm:"size:10;not null;column:old_status" json:"old_status"`
	NewStatus     string      `gorm:"size:10;not null;column:new_status" json:"new_status"`
	ChangeReason  string      `gorm:"type:text;column:change_reason" json:"change_reason"`
	ChangedAt     time.Time   `gorm:"autoCreateTime;column:changed_at" json:"changed_at"`
}

func (AppointmentHistory) TableName() string {
	return "appointment_history"
}
