package auth

import "errors"

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrInvalidCredentials is returned by login for any identifier or password mismatch
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoEmptyString password must not be empty
var ErrNoEmptyString = errors.New("password can not be an empty string")

// ErrMismatchedHashAndPassword password does not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("password does not match hash")

// ErrMalformedHash stored hash can not be parsed
var ErrMalformedHash = errors.New("malformed password hash")

// ErrTokenMissing request carried no token
var ErrTokenMissing = errors.New("missing or malformed JWT")

// ErrTokenMalformed token could not be parsed
var ErrTokenMalformed = errors.New("token is malformed")

// ErrTokenSignatureInvalid token signature does not verify
var ErrTokenSignatureInvalid = errors.New("token signature is invalid")

// ErrTokenExpired token is past its expiry
var ErrTokenExpired = errors.New("token is expired")

// ErrForbidden verified identity lacks a required role
var ErrForbidden = errors.New("insufficient role")

// IsTokenError reports whether err is any token verification failure
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

// IsMalformedError will check for missing or unparsable tokens
func IsMalformedError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenMissing)
}
