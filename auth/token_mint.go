package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenOptions adjusts a single Mint call. The zero value issues a token
// now with the service expiration.
type TokenOptions struct {
	TTL      time.Duration
	IssuedAt time.Time
}

// Mint signs a session token for identity carrying the service issuer and
// audience. It returns the token and its expiry.
func (ts *TokenServiceImpl) Mint(identity Identity, opts TokenOptions) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, errors.New("identity is required")
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = time.Duration(ts.tokenExpiration) * time.Hour
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("token TTL must be positive")
	}

	issuedAt := opts.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	expiresAt := issuedAt.Add(ttl)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  append(jwt.ClaimStrings(nil), ts.audience...),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID(),
		UserEmail: identity.Email(),
		UserRole:  identity.Role(),
	}
	ensureTokenID(&claims.RegisteredClaims)

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
