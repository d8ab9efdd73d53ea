// Package auth holds the credential and session primitives of the API:
// bcrypt password hashing, HS256 session tokens carrying id, email and
// role claims, and the role guard consulted by the request pipeline.
//
// Token verification fails with one of ErrTokenMissing, ErrTokenMalformed,
// ErrTokenSignatureInvalid or ErrTokenExpired. Callers are expected to log
// the distinction and answer every one of them the same way.
//
// Roles have no hierarchy. A route open to learners and admins lists both.
package auth
