package repository

import "github.com/lingoscene/lingoscene-api/auth"

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	User *User
}

var _ auth.Identity = UserIdentity{}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) auth.Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{User: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.User == nil {
		return ""
	}
	return u.User.ID.String()
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.User == nil {
		return ""
	}
	return u.User.Email
}

func (u UserIdentity) Name() string {
	if u.User == nil || u.User.Name == nil {
		return ""
	}
	return *u.User.Name
}

// Role returns the user's role as a string.
func (u UserIdentity) Role() string {
	if u.User == nil {
		return ""
	}
	return string(u.User.Role)
}
