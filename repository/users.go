package repository

import (
	"context"
	"strings"

	grepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/uptrace/bun"
)

type Users interface {
	Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	Repository[*User]
	db   *bun.DB
	base grepo.Repository[*User]
}

var _ Users = (*users)(nil)

func userHandlers() grepo.ModelHandlers[*User] {
	return grepo.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(u *User) string {
			return NormalizeEmail(u.Email)
		},
		ResolveIdentifier: resolveUserIdentifier,
	}
}

// resolveUserIdentifier looks a UUID up by id first, then by email.
// Anything else is treated as an email.
func resolveUserIdentifier(identifier string) []grepo.IdentifierOption {
	trimmed := strings.TrimSpace(identifier)
	email := grepo.IdentifierOption{Column: "email", Value: NormalizeEmail(trimmed)}

	if id, err := uuid.Parse(trimmed); err == nil {
		return []grepo.IdentifierOption{{Column: "id", Value: id.String()}, email}
	}
	return []grepo.IdentifierOption{email}
}

func NewUsersRepository(db *bun.DB) Users {
	handlers := userHandlers()
	return &users{
		Repository: NewRepository(db, "User", handlers),
		db:         db,
		base:       grepo.NewRepositoryWithConfig(db, handlers, nil),
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.GetTx(ctx, tx, WhereColumn("email", NormalizeEmail(email)))
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier)
}

// GetByIdentifierTx resolves a user by ID or email, whichever the
// identifier looks like.
func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*User, error) {
	record, err := a.base.GetByIdentifierTx(ctx, tx, identifier)
	if err != nil {
		return nil, mapDBError(err, "User")
	}
	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = auth.RoleUser
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
