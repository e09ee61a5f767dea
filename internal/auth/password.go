package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost mirrors the salt complexity used for existing stored hashes.
const hashCost = 10

// dummyHash is a valid bcrypt digest compared against when the requested user
// does not exist, so sign-in costs the same whether or not the identifier is
// registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// equalizeTiming burns a full bcrypt comparison. Called on the unknown-user
// path so response timing does not reveal whether an identifier exists.
func equalizeTiming(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
