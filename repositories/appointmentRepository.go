package repositories

import (
	"MediBook/cache"
	"MediBook/database"
	"MediBook/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TimeSlotCacheExpiry = 7 * 24 * time.Hour

	lockRetries    = 3
	lockRetryDelay = 200 * time.Millisecond
)

// activeStatuses are the statuses that hold a slot against other bookings.
var activeStatuses = []string{models.StatusPending, models.StatusConfirmed}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, appointmentID int64) (*models.Appointment, error)
	HasActiveBooking(ctx context.Context, doctorID int64, date string, timeSlotID int64) (bool, error)
	BookedSlotIDs(ctx context.Context, doctorID int64, date string) (map[int64]bool, error)
	UpdateStatusWithHistory(ctx context.Context, appointment *models.Appointment, newStatus string, changedByID int64, reason string) error
	ListHistory(ctx context.Context, appointmentID int64) ([]models.AppointmentHistory, error)

	GetTimeSlotByID(ctx context.Context, timeSlotID int64) (*models.TimeSlot, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)

	ListUpcomingForPatient(ctx context.Context, patientID int64, fromDate string) ([]models.Appointment, error)
	ListPastForPatient(ctx context.Context, patientID int64, beforeDate string, limit int) ([]models.Appointment, error)
	CountPastForPatient(ctx context.Context, patientID int64, beforeDate string) (int64, error)
	CountTotalForPatient(ctx context.Context, patientID int64) (int64, error)
	ListForDoctorOnDate(ctx context.Context, doctorID int64, date string) ([]models.Appointment, error)
	ListUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string, limit int) ([]models.Appointment, error)
	CountUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string) (int64, error)
	CountDistinctPatientsForDoctor(ctx context.Context, doctorID int64) (int64, error)
}

type appointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) AppointmentRepository {
	return &appointmentRepository{db: db, cache: cache}
}

// Create persists a new appointment. A redis lock on the (doctor, date, slot)
// triple narrows the race window between concurrent bookings; the partial
// unique index on active bookings is the binding guarantee, and its violation
// is reported as ErrSlotTaken.
func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	lockKey := fmt.Sprintf("booking_lock:%d_%s_%d",
		appointment.DoctorID, appointment.AppointmentDate, appointment.TimeSlotID)
	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < lockRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < lockRetries-1 {
			time.Sleep(lockRetryDelay)
		}
	}
	if err != nil {
		// Lock store failure, not contention; never report it as a conflict.
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	if !locked {
		// Another booking for the same slot is in flight.
		return ErrSlotTaken
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Patient").
		Preload("Patient.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Preload("Doctor").
		Preload("Doctor.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		First(&appointment, "id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) HasActiveBooking(ctx context.Context, doctorID int64, date string, timeSlotID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot_id = ? AND status IN ?",
			doctorID, date, timeSlotID, activeStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

// BookedSlotIDs returns the slot ids held by an active booking for the
// doctor on the given date.
func (r *appointmentRepository) BookedSlotIDs(ctx context.Context, doctorID int64, date string) (map[int64]bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status IN ?", doctorID, date, activeStatuses).
		Pluck("time_slot_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	booked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}

// UpdateStatusWithHistory applies the status change and appends exactly one
// audit row, atomically. History rows are never updated or deleted.
func (r *appointmentRepository) UpdateStatusWithHistory(ctx context.Context, appointment *models.Appointment, newStatus string, changedByID int64, reason string) error {
	oldStatus := appointment.Status
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).
			Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}

		history := models.AppointmentHistory{
			AppointmentID: appointment.ID,
			ChangedByID:   changedByID,
			OldStatus:     oldStatus,
			NewStatus:     newStatus,
			ChangeReason:  reason,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record appointment history: %w", err)
		}

		appointment.Status = newStatus
		return nil
	})
}

func (r *appointmentRepository) ListHistory(ctx context.Context, appointmentID int64) ([]models.AppointmentHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var history []models.AppointmentHistory
	err := r.db.WithContext(ctx).
		Preload("ChangedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name, user_type")
		}).
		Where("appointment_id = ?", appointmentID).
		Order("changed_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment history: %w", err)
	}
	return history, nil
}

func (r *appointmentRepository) GetTimeSlotByID(ctx context.Context, timeSlotID int64) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", timeSlotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}
	return &slot, nil
}

// ListTimeSlots returns the full catalog in time order. The catalog is fixed
// reference data so it is cached aggressively.
func (r *appointmentRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "time_slots_cache"
	cachedSlots, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedSlots != "" {
		var slots []models.TimeSlot
		if err := json.Unmarshal([]byte(cachedSlots), &slots); err == nil {
			return slots, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get time slots from cache: %v", err)
	}

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).Order("time").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}

	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, slotsJSON, TimeSlotCacheExpiry); err != nil {
		log.Printf("Failed to set time slots in cache: %v", err)
	}

	return slots, nil
}

func (r *appointmentRepository) ListUpcomingForPatient(ctx context.Context, patientID int64, fromDate string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Doctor").
		Preload("Doctor.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Where("patient_id = ? AND appointment_date >= ? AND status IN ?", patientID, fromDate, activeStatuses).
		Order("appointment_date, time_slot_id").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListPastForPatient(ctx context.Context, patientID int64, beforeDate string, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Doctor").
		Preload("Doctor.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Where("patient_id = ? AND appointment_date < ?", patientID, beforeDate).
		Order("appointment_date DESC, time_slot_id DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list past appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountPastForPatient(ctx context.Context, patientID int64, beforeDate string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ? AND appointment_date < ?", patientID, beforeDate).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count past appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountTotalForPatient(ctx context.Context, patientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ? AND status IN ?", patientID,
			[]string{models.StatusPending, models.StatusConfirmed, models.StatusCompleted}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) ListForDoctorOnDate(ctx context.Context, doctorID int64, date string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Patient").
		Preload("Patient.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Where("doctor_id = ? AND appointment_date = ? AND status IN ?", doctorID, date, activeStatuses).
		Order("time_slot_id").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for date: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Patient").
		Preload("Patient.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Where("doctor_id = ? AND appointment_date > ? AND status IN ?", doctorID, afterDate, activeStatuses).
		Order("appointment_date, time_slot_id").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date > ? AND status IN ?", doctorID, afterDate, activeStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountDistinctPatientsForDoctor(ctx context.Context, doctorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctorID,
			[]string{models.StatusPending, models.StatusConfirmed, models.StatusCompleted}).
		Distinct("patient_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
