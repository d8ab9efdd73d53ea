package auth_test

import (
	"testing"

	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	user := &auth.JWTClaims{UserRole: string(auth.RoleUser)}
	admin := &auth.JWTClaims{UserRole: string(auth.RoleAdmin)}
	roleless := &auth.JWTClaims{}

	tests := []struct {
		name     string
		claims   auth.AuthClaims
		required []auth.Role
		allowed  bool
	}{
		{name: "no policy, no claims", claims: nil, required: nil, allowed: true},
		{name: "no policy, user", claims: user, required: nil, allowed: true},
		{name: "admin route, user", claims: user, required: []auth.Role{auth.RoleAdmin}, allowed: false},
		{name: "admin route, admin", claims: admin, required: []auth.Role{auth.RoleAdmin}, allowed: true},
		{name: "admin route, absent", claims: nil, required: []auth.Role{auth.RoleAdmin}, allowed: false},
		{name: "user route, admin", claims: admin, required: []auth.Role{auth.RoleUser}, allowed: false},
		{name: "user and admin route, admin", claims: admin, required: []auth.Role{auth.RoleUser, auth.RoleAdmin}, allowed: true},
		{name: "user and admin route, user", claims: user, required: []auth.Role{auth.RoleUser, auth.RoleAdmin}, allowed: true},
		{name: "admin route, empty role", claims: roleless, required: []auth.Role{auth.RoleAdmin}, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.Authorize(tt.claims, tt.required)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, auth.ErrForbidden)
			}
			assert.Equal(t, tt.allowed, auth.Allowed(tt.claims, tt.required...))
		})
	}
}

func TestAuthorize_TypedNilClaims(t *testing.T) {
	var claims *auth.JWTClaims
	assert.ErrorIs(t, auth.Authorize(claims, []auth.Role{auth.RoleAdmin}), auth.ErrForbidden)
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)

	_, ok = auth.ParseRole("owner")
	assert.False(t, ok)

	assert.Equal(t, []any{"user", "admin"}, auth.RoleStrings())
}
