package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// AccessCodeLength is the required length of a kiosk access code
	AccessCodeLength = 4
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 12
)

// HashAccessCode hashes a 4-digit access code using bcrypt
func HashAccessCode(code string) (string, error) {
	if err := ValidateAccessCode(code); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash access code: %w", err)
	}

	return string(bytes), nil
}

// CheckAccessCode compares an access code with a hash
func CheckAccessCode(code, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errors.New("invalid access code")
		}
		return fmt.Errorf("failed to check access code: %w", err)
	}
	return nil
}

// ValidateAccessCode checks that a code is exactly four digits
func ValidateAccessCode(code string) error {
	if len(code) != AccessCodeLength {
		return fmt.Errorf("access code must be exactly %d digits", AccessCodeLength)
	}
	for _, char := range code {
		if char < '0' || char > '9' {
			return errors.New("access code must contain only digits")
		}
	}
	return nil
}
