//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

func passwordHashCost(int) int {
	// Race builds are an order of magnitude slower; keep hashing cheap there.
	return bcrypt.MinCost
}
