package utils

import (
	"MediBook/config"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/o1egl/paseto"
)

const (
	// Set expiration times for access and refresh tokens.
	AccessTokenExpiry  = 24 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// TokenClaims represents the data in the token (UserID, UserType, Expiry).
type TokenClaims struct {
	UserID   string    `json:"userId"`
	UserType string    `json:"userType"`
	Expiry   time.Time `json:"expiry"`
}

// GetSymmetricKey retrieves the token encryption key from the configuration.
func GetSymmetricKey() []byte {
	key, err := config.SymmetricKey()
	if err != nil {
		log.Fatalf("invalid token key configuration: %v", err)
	}
	return key
}

// GenerateTokens generates both the access token and refresh token for the
// given user ID and user type.
func GenerateTokens(userID, userType string) (accessToken, refreshToken string, err error) {
	accessToken, err = generatePASEToken(userID, userType, AccessTokenExpiry)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return "", "", err
	}

	refreshToken, err = generatePASEToken(userID, userType, RefreshTokenExpiry)
	if err != nil {
		log.Printf("Error generating refresh token: %v", err)
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates only the access token for a user.
func GenerateAccessToken(userID, userType string) (string, error) {
	token, err := generatePASEToken(userID, userType, AccessTokenExpiry)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return "", err
	}
	return token, nil
}

// generatePASEToken generates a PASETO token for the given user ID, user type
// and expiry duration.
func generatePASEToken(userID, userType string, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		UserID:   userID,
		UserType: userType,
		Expiry:   time.Now().Add(expiry),
	}

	symmetricKey := GetSymmetricKey()
	token, err := paseto.NewV2().Encrypt(symmetricKey, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken validates the given token string and checks for expiry and
// required user types.
func ValidateToken(tokenString string, requiredTypes ...string) (*TokenClaims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if time.Now().After(claims.Expiry) {
		return nil, errors.New("token expired")
	}

	// If no user types are required, any valid token is acceptable
	if len(requiredTypes) == 0 {
		return claims, nil
	}

	for _, userType := range requiredTypes {
		if claims.UserType == userType {
			return claims, nil
		}
	}

	return nil, errors.New("insufficient permissions")
}

// parseToken decrypts the token and extracts claims from it.
func parseToken(tokenString string) (*TokenClaims, error) {
	var claims TokenClaims
	symmetricKey := GetSymmetricKey()

	err := paseto.NewV2().Decrypt(tokenString, symmetricKey, &claims, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	return &claims, nil
}
