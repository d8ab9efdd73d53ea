package auth

import (
	"context"
	"errors"
	"reflect"
)

// Auther verifies credentials against an IdentityProvider and issues tokens
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokenService TokenService) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the identifier and password pair and returns a signed
// token for the matching identity. Unknown identifiers and wrong passwords
// both return ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.Is(err, ErrMismatchedHashAndPassword) || errors.Is(err, ErrMalformedHash) {
			s.logger.Info("Login rejected", "error", err)
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("Login verify identity error", "error", err)
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login generate token error", "error", err)
		return "", nil, err
	}

	return token, identity, nil
}

// SessionFromToken validates token and returns its claims
func (s *Auther) SessionFromToken(token string) (AuthClaims, error) {
	return s.tokenService.Validate(token)
}

// IdentityFromSession loads the identity a claim refers to
func (s *Auther) IdentityFromSession(ctx context.Context, claims AuthClaims) (Identity, error) {
	if claims == nil {
		return nil, ErrIdentityNotFound
	}
	return s.provider.FindIdentityByIdentifier(ctx, claims.UserID())
}
