package service

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/repository"
)

// UserProvider resolves and verifies identities stored in the users table
type UserProvider struct {
	users  repository.Users
	hasher auth.PasswordAuthenticator

	dummyOnce sync.Once
	dummyHash string
}

var _ auth.IdentityProvider = (*UserProvider)(nil)

func NewUserProvider(users repository.Users, hasher auth.PasswordAuthenticator) *UserProvider {
	return &UserProvider{
		users:  users,
		hasher: hasher,
	}
}

// VerifyIdentity will find the user, compare to the password, and return identity
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	user, err := u.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// unknown accounts pay the same bcrypt cost as known ones
			_ = u.hasher.ComparePasswordAndHash(password, u.dummy())
			return nil, auth.ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification").
			WithStackTrace()
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return repository.NewIdentityFromUser(user), nil
}

func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	user, err := u.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}
	return repository.NewIdentityFromUser(user), nil
}

// fallbackHash is a cost 10 bcrypt hash used when the hasher cannot
// produce one of its own.
const fallbackHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2f6bXvQ1rKz1tX9Q7Q7mG2e"

// dummy returns a hash at the hasher's own cost to compare against when
// the identifier matches no user.
func (u *UserProvider) dummy() string {
	u.dummyOnce.Do(func() {
		hash, err := u.hasher.HashPassword("lingoscene-unknown-account")
		if err != nil || hash == "" {
			hash = fallbackHash
		}
		u.dummyHash = hash
	})
	return u.dummyHash
}
