package service

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

// LoginResult is the login response body.
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	User        *repository.User `json:"user"`
}

// Authenticator is the login side of auth.Auther
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, auth.Identity, error)
}

type Sessions struct {
	auther Authenticator
	users  repository.Users
	logger Logger
}

func NewSessions(auther Authenticator, users repository.Users, logger Logger) *Sessions {
	return &Sessions{
		auther: auther,
		users:  users,
		logger: loggerOrNop(logger),
	}
}

// Login exchanges credentials for a signed token.
func (s *Sessions) Login(ctx context.Context, p *schema.Login) (*LoginResult, error) {
	token, identity, err := s.auther.Login(ctx, p.Email, p.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid credentials").
				WithTextCode("INVALID_CREDENTIALS")
		}
		return nil, err
	}

	var user *repository.User
	if ui, ok := identity.(repository.UserIdentity); ok && ui.User != nil {
		user = ui.User
	} else {
		if user, err = s.users.GetByIdentifier(ctx, identity.ID()); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user logged in", "id", user.ID.String())

	return &LoginResult{AccessToken: token, User: user}, nil
}

// Profile is the public view of the caller's claims
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func ProfileFromClaims(claims auth.AuthClaims) Profile {
	return Profile{
		ID:    claims.UserID(),
		Email: claims.Email(),
		Role:  claims.Role(),
	}
}
