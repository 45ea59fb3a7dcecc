package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the original registration flow used.
const bcryptCost = 10

// BcryptHashService implements ports.HashService for PINs and passwords.
// bcrypt salts each hash and compares in constant time, so a stored hash
// leaks nothing about the PIN and verification is timing-safe.
type BcryptHashService struct{}

// NewBcryptHashService creates a new bcrypt hash service.
func NewBcryptHashService() *BcryptHashService {
	return &BcryptHashService{}
}

// Hash generates a salted bcrypt hash of the secret.
func (s *BcryptHashService) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

// Verify checks the secret against the stored hash. A mismatch is reported
// as (false, nil); only malformed hashes produce an error.
func (s *BcryptHashService) Verify(secret string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("comparing hash: %w", err)
}
