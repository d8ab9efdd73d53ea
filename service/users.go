package service

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

// Users manages accounts.
type Users struct {
	repo     repository.Manager
	hasher   auth.PasswordAuthenticator
	register *RegisterUserHandler
	logger   Logger
}

func NewUsers(repo repository.Manager, hasher auth.PasswordAuthenticator, logger Logger) *Users {
	logger = loggerOrNop(logger)
	return &Users{
		repo:     repo,
		hasher:   hasher,
		register: NewRegisterUserHandler(repo, hasher, logger),
		logger:   logger,
	}
}

// Register is public sign up. The role is always user.
func (s *Users) Register(ctx context.Context, p *schema.User) (*repository.User, error) {
	msg := registerMessage(p)
	msg.ID = ""
	msg.Role = auth.RoleUser
	return s.register.Register(ctx, msg)
}

// Create is the admin variant of Register and honors the requested role.
func (s *Users) Create(ctx context.Context, p *schema.User) (*repository.User, error) {
	return s.register.Register(ctx, registerMessage(p))
}

// Bootstrap creates an account outside of HTTP, e.g. the first admin.
func (s *Users) Bootstrap(ctx context.Context, msg RegisterUserMessage) (*repository.User, error) {
	return s.register.Register(ctx, msg)
}

func (s *Users) List(ctx context.Context) ([]*repository.User, error) {
	users, _, err := s.repo.Users().List(ctx, repository.OrderByID())
	return users, err
}

func (s *Users) Get(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	return s.repo.Users().GetByID(ctx, id)
}

// Update changes profile fields. A caller with the user role may only
// update its own account.
func (s *Users) Update(ctx context.Context, actor auth.AuthClaims, id uuid.UUID, p *schema.User) (*repository.User, error) {
	if !auth.Allowed(actor, auth.RoleAdmin) && (actor == nil || actor.UserID() != id.String()) {
		return nil, goerrors.Wrap(auth.ErrForbidden, goerrors.CategoryAuthz, apierr.ForbiddenMessage)
	}

	record := &repository.User{ID: id}
	var columns []string

	if p.Email != nil {
		record.Email = repository.NormalizeEmail(*p.Email)
		columns = append(columns, "email")
	}

	if p.Name != nil {
		record.Name = p.Name
		columns = append(columns, "name")
	}

	if p.Password != nil {
		hash, err := s.hasher.HashPassword(*p.Password)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		record.PasswordHash = hash
		columns = append(columns, "password_hash")
	}

	user, err := s.repo.Users().Update(ctx, record, columns...)
	if repository.IsDuplicate(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "User with this email already exists").
			WithTextCode("USER_EXISTS")
	}
	return user, err
}

func (s *Users) Delete(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	return s.repo.Users().DeleteByID(ctx, id)
}

func registerMessage(p *schema.User) RegisterUserMessage {
	msg := RegisterUserMessage{Name: p.Name}
	if p.ID != nil {
		msg.ID = *p.ID
	}
	if p.Email != nil {
		msg.Email = *p.Email
	}
	if p.Password != nil {
		msg.Password = *p.Password
	}
	if p.Role != nil {
		msg.Role = auth.Role(*p.Role)
	}
	return msg
}
