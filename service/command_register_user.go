package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-command"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/uptrace/bun"
)

const registerTimeout = 10 * time.Second

// RegisterUserMessage carries a new account. ID is optional; UseHashid
// derives it from the email instead.
type RegisterUserMessage struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      *string   `json:"name"`
	Role      auth.Role `json:"role"`
	UseHashid bool      `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate checks the fields the HTTP schema does not cover for callers
// outside of HTTP.
func (e RegisterUserMessage) Validate() error {
	var fields []goerrors.FieldError
	if strings.TrimSpace(e.Email) == "" {
		fields = append(fields, goerrors.FieldError{Field: "email", Message: "Email is required"})
	}
	if e.Role != "" && !e.Role.IsValid() {
		fields = append(fields, goerrors.FieldError{
			Field:   "role",
			Message: "Role must be one of: user, admin",
			Value:   string(e.Role),
		})
	}
	if len(fields) == 0 {
		return nil
	}
	return goerrors.NewValidation(apierr.ValidationMessage, fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode("VALIDATION_ERROR")
}

// RegisterUserHandler creates accounts. It is a command.Querier so the
// created record flows back to the caller through runner.RunQuery.
type RegisterUserHandler struct {
	command.MessageHandler[RegisterUserMessage]

	repo   repository.Manager
	hasher auth.PasswordAuthenticator
	logger Logger
	runner *runner.Handler
}

var (
	_ command.Querier[RegisterUserMessage, *repository.User] = (*RegisterUserHandler)(nil)
	_ command.Commander[RegisterUserMessage]                 = (*RegisterUserHandler)(nil)
)

func NewRegisterUserHandler(repo repository.Manager, hasher auth.PasswordAuthenticator, logger Logger) *RegisterUserHandler {
	logger = loggerOrNop(logger)
	return &RegisterUserHandler{
		repo:   repo,
		hasher: hasher,
		logger: logger,
		runner: runner.NewHandler(
			runner.WithTimeout(registerTimeout),
			runner.WithErrorHandler(func(err error) {
				logger.Debug("register command failed", "error", err)
			}),
		),
	}
}

// Register runs the handler and returns the created user.
func (h *RegisterUserHandler) Register(ctx context.Context, msg RegisterUserMessage) (*repository.User, error) {
	return runner.RunQuery[RegisterUserMessage, *repository.User](ctx, h.runner, h, msg)
}

// Execute registers the account and discards the record.
func (h *RegisterUserHandler) Execute(ctx context.Context, msg RegisterUserMessage) error {
	_, err := h.Register(ctx, msg)
	return err
}

func (h *RegisterUserHandler) Query(ctx context.Context, msg RegisterUserMessage) (*repository.User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
	}

	if err := h.ValidateMessage(msg); err != nil {
		if rich, ok := apierr.As(err); ok {
			return nil, rich
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, apierr.ValidationMessage)
	}

	return h.register(ctx, msg)
}

func (h *RegisterUserHandler) register(ctx context.Context, msg RegisterUserMessage) (*repository.User, error) {
	hash, err := h.hasher.HashPassword(msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrNoEmptyString) {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "Password is required")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &repository.User{
		Email:        msg.Email,
		PasswordHash: hash,
		Name:         msg.Name,
		Role:         msg.Role,
	}

	switch {
	case msg.ID != "":
		if user.ID, err = uuid.Parse(msg.ID); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "Id must be a valid UUID")
		}
	case msg.UseHashid:
		if id, err := hashid.NewUUID(repository.NormalizeEmail(msg.Email)); err == nil {
			user.ID = id
		}
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	})

	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "User with this email already exists").
				WithTextCode("USER_EXISTS")
		}

		if rich, ok := apierr.As(err); ok {
			return nil, rich
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.logger.Info("user registered", "id", user.ID.String(), "role", string(user.Role))
	return user, nil
}
