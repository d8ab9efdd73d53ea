package schema

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Login is the login request body
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewLogin() any { return &Login{} }

func (p *Login) Normalize() {
	p.Email = strings.TrimSpace(p.Email)
}

func (p *Login) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email format"),
		),
		validation.Field(&p.Password, validation.Required.Error("Password is required")),
	)
}

// User is the body for creating or updating a user.
type User struct {
	ID       *string `json:"id"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`

	partial bool
}

// NewUserCreate returns a full user payload
func NewUserCreate() any { return &User{} }

// NewUserUpdate returns a partial payload. id and role are not part of it.
func NewUserUpdate() any { return &User{partial: true} }

func (p *User) Partial() bool { return p.partial }

func (p *User) Normalize() {
	trim(p.Email)
	trim(p.Name)
	trim(p.ID)
	if p.partial {
		p.ID = nil
		p.Role = nil
	}
}

func (p *User) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ID, is.UUID.Error("Id must be a valid UUID")),
		validation.Field(&p.Email,
			presence(p.partial, "Email is required"),
			is.Email.Error("Invalid email format"),
		),
		validation.Field(&p.Password, passwordRules(p.partial)...),
		validation.Field(&p.Name,
			validation.RuneLength(2, 0).Error("Name must be at least 2 characters"),
		),
		validation.Field(&p.Role,
			validation.In("user", "admin").Error("Role must be one of: user, admin"),
		),
	)
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func passwordRules(partial bool) []validation.Rule {
	return []validation.Rule{
		presence(partial, "Password is required"),
		validation.RuneLength(8, 0).Error("Password must be at least 8 characters"),
		validation.Length(0, MaxPasswordBytes).Error("Password must be at most 72 bytes"),
		validation.Match(hasUpper).Error("Password must contain at least one uppercase letter"),
		validation.Match(hasLower).Error("Password must contain at least one lowercase letter"),
		validation.Match(hasDigit).Error("Password must contain at least one number"),
	}
}
