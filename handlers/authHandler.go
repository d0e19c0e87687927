package handlers

import (
	"MediBook/middlewares"
	"MediBook/models"
	"MediBook/services"
	"MediBook/utils"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth    *services.AuthService
	doctors *services.DoctorService
}

func NewAuthHandler(auth *services.AuthService, doctors *services.DoctorService) *AuthHandler {
	return &AuthHandler{auth: auth, doctors: doctors}
}

type registerPatientRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"date_of_birth"`
	Address          string `json:"address"`
	Gender           string `json:"gender"`
	EmergencyContact string `json:"emergency_contact"`
	BloodGroup       string `json:"blood_group"`
	MedicalHistory   string `json:"medical_history"`
}

// RegisterPatient creates a patient account with its profile.
func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}
	patient := models.Patient{
		Gender:           req.Gender,
		EmergencyContact: req.EmergencyContact,
		BloodGroup:       req.BloodGroup,
		MedicalHistory:   req.MedicalHistory,
	}

	if err := h.auth.RegisterPatient(c.Request.Context(), &user, &patient); err != nil {
		if status := errorStatus(err); status != 500 {
			c.JSON(status, gin.H{"error": err.Error()})
		} else {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Registration failed: %v", err)})
		}
		return
	}

	c.JSON(201, gin.H{"userId": user.ID, "patientId": patient.ID})
}

type registerDoctorRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone"`
	DateOfBirth     string  `json:"date_of_birth"`
	Address         string  `json:"address"`
	Specialization  string  `json:"specialization"`
	LicenseNumber   string  `json:"license_number"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
	Bio             string  `json:"bio"`
}

// RegisterDoctor creates a doctor account with its profile.
func (h *AuthHandler) RegisterDoctor(c *gin.Context) {
	var req registerDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}
	doctor := models.Doctor{
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		Bio:             req.Bio,
		IsAvailable:     true,
	}

	if err := h.auth.RegisterDoctor(c.Request.Context(), &user, &doctor); err != nil {
		if status := errorStatus(err); status != 500 {
			c.JSON(status, gin.H{"error": err.Error()})
		} else {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Registration failed: %v", err)})
		}
		return
	}

	c.JSON(201, gin.H{"userId": user.ID, "doctorId": doctor.ID})
}

// Login authenticates the user and returns tokens along with user info.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, credentials.Email, credentials.Password)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(strconv.FormatInt(user.ID, 10), user.UserType)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate tokens: %v", err)})
		return
	}

	c.JSON(200, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"userType": user.UserType,
		},
	})
}

// RefreshToken exchanges a valid token for a fresh access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := c.DefaultQuery("accessToken", "")
	if token == "" {
		c.JSON(400, gin.H{"error": "access token is required"})
		return
	}

	claims, err := utils.ValidateToken(token, models.UserTypePatient, models.UserTypeDoctor)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid access token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.UserType)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate access token: %v", err)})
		return
	}

	c.JSON(200, gin.H{"accessToken": accessToken})
}

// Logoff logs the user out by clearing cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(200)
}

// GetProfile returns the authenticated account and its role profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"user": user}
	switch user.UserType {
	case models.UserTypePatient:
		if patient, err := h.auth.GetPatientByUserID(ctx, userID); err == nil {
			response["patient"] = patient
		}
	case models.UserTypeDoctor:
		if doctor, err := h.doctors.GetByUserID(ctx, userID); err == nil {
			response["doctor"] = doctor
		}
	}

	c.JSON(200, response)
}

// UpdateProfile updates the account's contact fields. Username and user type
// are immutable.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		DateOfBirth string `json:"date_of_birth"`
		Address     string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.auth.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Phone = req.Phone
	user.DateOfBirth = req.DateOfBirth
	user.Address = req.Address

	if err := h.auth.UpdateProfile(ctx, user); err != nil {
		if status := errorStatus(err); status != 500 {
			c.JSON(status, gin.H{"error": err.Error()})
		} else {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Failed to update profile: %v", err)})
		}
		return
	}

	c.JSON(200, gin.H{"user": user})
}

// SendResetCode sends a password reset code to the user's email.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var data struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.GetUserByEmail(ctx, data.Email)
	if err != nil {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, user.Email, code); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to set reset code: %v", err)})
		return
	}

	if err := utils.SendResetCodeEmail(user.Email, code); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to send reset code email: %v", err)})
		return
	}

	c.Status(200)
}

// ChangePassword sets a new password after verifying the emailed reset code.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.auth.ResetPassword(ctx, data.Email, data.Code, data.NewPassword); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidResetCode):
			c.JSON(401, gin.H{"error": "Invalid reset code"})
		default:
			if status := errorStatus(err); status != 500 {
				c.JSON(status, gin.H{"error": err.Error()})
			} else {
				c.JSON(400, gin.H{"error": fmt.Sprintf("Failed to change password: %v", err)})
			}
		}
		return
	}

	c.Status(200)
}
