package repositories

import (
	"MediBook/cache"
	"MediBook/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	DoctorCacheExpiry = time.Hour
)

type DoctorRepository interface {
	GetByID(ctx context.Context, doctorID int64) (*models.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error)
	ListAvailable(ctx context.Context, specialization string) ([]models.Doctor, error)
	SetAvailable(ctx context.Context, doctorID int64, available bool) error
	GetAvailability(ctx context.Context, doctorID int64, weekday int) (*models.DoctorAvailability, error)
	ListAvailability(ctx context.Context, doctorID int64) ([]models.DoctorAvailability, error)
	SetAvailability(ctx context.Context, availability *models.DoctorAvailability) error
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) GetByID(ctx context.Context, doctorID int64) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDoctorCacheKey(doctorID)
	cachedDoctor, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedDoctor != "" {
		var doctor models.Doctor
		if err := json.Unmarshal([]byte(cachedDoctor), &doctor); err == nil {
			return &doctor, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get doctor from cache: %v", err)
	}

	var doctor models.Doctor
	err = r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, user_type, first_name, last_name, phone")
		}).
		First(&doctor, "id = ?", doctorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	doctorJSON, err := json.Marshal(doctor)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, doctorJSON, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctor in cache: %v", err)
	}

	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

// ListAvailable returns doctors accepting bookings, optionally filtered by
// specialization.
func (r *doctorRepository) ListAvailable(ctx context.Context, specialization string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("doctors_cache:%s", specialization)
	cachedDoctors, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedDoctors != "" {
		var doctors []models.Doctor
		if err := json.Unmarshal([]byte(cachedDoctors), &doctors); err == nil {
			return doctors, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get doctors from cache: %v", err)
	}

	query := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Where("is_available = ?", true)
	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	var doctors []models.Doctor
	if err := query.Order("id").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctorsJSON, err := json.Marshal(doctors)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, doctorsJSON, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctors in cache: %v", err)
	}

	return doctors, nil
}

func (r *doctorRepository) SetAvailable(ctx context.Context, doctorID int64, available bool) error {
	result := r.db.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ?", doctorID).
		Update("is_available", available)
	if result.Error != nil {
		return fmt.Errorf("failed to update doctor availability flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDoctorNotFound
	}
	return r.invalidateDoctorCache(ctx, doctorID)
}

func (r *doctorRepository) GetAvailability(ctx context.Context, doctorID int64, weekday int) (*models.DoctorAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var availability models.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("failed to get doctor availability: %w", err)
	}
	return &availability, nil
}

func (r *doctorRepository) ListAvailability(ctx context.Context, doctorID int64) ([]models.DoctorAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var availability []models.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday").
		Find(&availability).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor availability: %w", err)
	}
	return availability, nil
}

// SetAvailability upserts the single row for (doctor, weekday).
func (r *doctorRepository) SetAvailability(ctx context.Context, availability *models.DoctorAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.DoctorAvailability
		err := tx.Where("doctor_id = ? AND weekday = ?", availability.DoctorID, availability.Weekday).
			First(&existing).Error
		switch {
		case err == nil:
			availability.ID = existing.ID
			return tx.Save(availability).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(availability).Error
		default:
			return fmt.Errorf("failed to upsert doctor availability: %w", err)
		}
	})
}

func (r *doctorRepository) invalidateDoctorCache(ctx context.Context, doctorID int64) error {
	if err := r.cache.Delete(ctx, r.getDoctorCacheKey(doctorID)); err != nil {
		return fmt.Errorf("failed to delete doctor cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "doctors_cache:*")
}

func (r *doctorRepository) getDoctorCacheKey(doctorID int64) string {
	return fmt.Sprintf("doctor_cache:%d", doctorID)
}
