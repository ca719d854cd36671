package console

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor for console passwords
const bcryptCost = 12

// Config configures the admin console.
type Config struct {
	Address string
	// PasswordHash is a bcrypt hash of the admin password. An empty hash
	// rejects every login.
	PasswordHash string
	MaxPerIP     int
	MaxTotal     int
	Throttle     ThrottleConfig
}

// DefaultConfig returns the console defaults.
func DefaultConfig() Config {
	return Config{
		Address:  ":8089",
		MaxPerIP: 2,
		MaxTotal: 8,
		Throttle: DefaultThrottleConfig(),
	}
}

// HashPassword hashes a console password for Config.PasswordHash.
func HashPassword(password string) (string, error) {
	return hashPassword(password, bcryptCost)
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the configured hash.
func (c Config) CheckPassword(password string) bool {
	if c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}
