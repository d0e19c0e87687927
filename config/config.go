package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// SMTPConfig holds the mail delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// LoadSMTPConfig reads the SMTP settings from the environment.
func LoadSMTPConfig() (SMTPConfig, error) {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}
	return SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
	}, nil
}

// SymmetricKey reads the token encryption key from the environment. PASETO v2
// local mode requires exactly 32 bytes.
func SymmetricKey() ([]byte, error) {
	key := os.Getenv("SYMMETRIC_KEY")
	if len(key) != 32 {
		return nil, errors.New("SYMMETRIC_KEY must be 32 bytes long")
	}
	return []byte(key), nil
}
