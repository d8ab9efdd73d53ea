package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher implements PasswordAuthenticator with bcrypt. The salt is
// generated per call and embedded in the hash.
type PasswordHasher struct {
	cost int
}

var _ PasswordAuthenticator = PasswordHasher{}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost
// when cost is outside the bcrypt bounds.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: passwordHashCost(cost)}
}

// HashPassword will generate a password hash
func (h PasswordHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.cost
	if cost == 0 {
		cost = passwordHashCost(bcrypt.DefaultCost)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (h PasswordHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return errors.Join(ErrMalformedHash, err)
	}
	return nil
}

// Verify is the boolean form of ComparePasswordAndHash. A malformed hash
// is a mismatch.
func (h PasswordHasher) Verify(password, hash string) bool {
	return h.ComparePasswordAndHash(password, hash) == nil
}
