package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the slice of the account store the provider needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider resolves identities against the credential store. It is the
// single lookup path shared by password verification and token resolution,
// so both always observe the same account state.
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: NewPasswordAuthenticator(),
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithPasswordAuthenticator overrides the hash comparison, used by tests
func (u *UserProvider) WithPasswordAuthenticator(pa PasswordAuthenticator) *UserProvider {
	if pa != nil {
		u.hasher = pa
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Lookup failure and password mismatch are distinct errors: the
// product reports a missing username separately from a bad password.
func (u *UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login: %v", err)
	}

	return NewIdentity(user), nil
}

// FindIdentityByUsername resolves the complete principal for a validated
// token subject. An account deleted after token issue surfaces here as
// ErrIdentityNotFound, which callers treat as an unauthenticated request.
func (u *UserProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during resolution")
	}

	return NewIdentity(user), nil
}
