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
	UserCacheExpiry = 24 * time.Hour
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreatePatient(ctx context.Context, user *models.User, patient *models.Patient) error
	CreateDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetPatientByID(ctx context.Context, patientID int64) (*models.Patient, error)
	GetPatientByUserID(ctx context.Context, userID int64) (*models.Patient, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// CreatePatient creates the account and its patient profile in one
// transaction; registration never leaves a bare account behind.
func (r *userRepository) CreatePatient(ctx context.Context, user *models.User, patient *models.Patient) error {
	lockKey := fmt.Sprintf("registration_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to acquire registration lock: %w", err)
	}
	if !locked {
		return errors.New("a registration for this email is already in progress")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	user.UserType = models.UserTypePatient
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return translateUserCreateError(err)
		}
		patient.UserID = user.ID
		if err := tx.Create(patient).Error; err != nil {
			return fmt.Errorf("failed to create patient profile: %w", err)
		}
		return nil
	})
}

// CreateDoctor creates the account and its doctor profile in one transaction.
func (r *userRepository) CreateDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error {
	lockKey := fmt.Sprintf("registration_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to acquire registration lock: %w", err)
	}
	if !locked {
		return errors.New("a registration for this email is already in progress")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	user.UserType = models.UserTypeDoctor
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return translateUserCreateError(err)
		}
		doctor.UserID = user.ID
		if err := tx.Create(doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrLicenseTaken
			}
			return fmt.Errorf("failed to create doctor profile: %w", err)
		}
		return nil
	})
}

// translateUserCreateError maps a duplicate-key violation on the users table
// to a domain error. The pre-checks in the service are advisory; this is the
// binding one.
func translateUserCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return fmt.Errorf("failed to create user: %w", err)
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("user_cache:%s", username)
	cachedUser, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedUser != "" {
		var user models.User
		if err := json.Unmarshal([]byte(cachedUser), &user); err == nil {
			return &user, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.User
	err = r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, userJSON, UserCacheExpiry); err != nil {
		log.Printf("Failed to set user in cache: %v", err)
	}

	return &user, nil
}

func (r *userRepository) GetPatientByID(ctx context.Context, patientID int64) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, user_type, first_name, last_name, phone")
		}).
		First(&patient, "id = ?", patientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *userRepository) GetPatientByUserID(ctx context.Context, userID int64) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return &patient, nil
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"email":         user.Email,
			"phone":         user.Phone,
			"date_of_birth": user.DateOfBirth,
			"address":       user.Address,
		}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return r.cache.DeleteAll(ctx, "user_cache:*")
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return r.cache.DeleteAll(ctx, "user_cache:*")
}
