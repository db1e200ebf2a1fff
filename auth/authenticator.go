package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Auther orchestrates sign in and sign up over the credential store and
// token service
type Auther struct {
	provider     IdentityProvider
	repo         RepositoryManager
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, repo RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		repo:         repo,
		hasher:       NewPasswordAuthenticator(),
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

// WithTokenService overrides the token service, used by tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordAuthenticator overrides the password hasher, used by tests
func (s *Auther) WithPasswordAuthenticator(pa PasswordAuthenticator) *Auther {
	if pa != nil {
		s.hasher = pa
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login checks the username exists before touching the password, so a
// missing account and a wrong password report as different failures. Both
// still answer 400 at the HTTP layer.
func (s *Auther) Login(ctx context.Context, username, password string) (string, Identity, error) {
	exists, err := s.repo.Users().ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Login username check error: %v", err)
		return "", nil, err
	}
	if !exists {
		return "", nil, ErrIdentityNotFound
	}

	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return "", nil, err
	}

	token, err := s.tokenService.Generate(identity.Username())
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		return "", nil, err
	}

	return token, identity, nil
}

// Register creates the account with its role links in a single transaction.
// Uniqueness checks run first: username, then email, so a payload failing
// both reports the username conflict.
func (s *Auther) Register(ctx context.Context, reg Registration) (Identity, error) {
	username := strings.TrimSpace(reg.Username)

	taken, err := s.repo.Users().ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	inUse, err := s.repo.Users().ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     reg.FullName,
		Phone:        reg.Phone,
		Address:      reg.Address,
	}

	err = s.repo.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		roles, err := s.resolveRoles(ctx, reg.Roles)
		if err != nil {
			return err
		}

		_, err = s.repo.Users().RegisterTx(ctx, tx, user, roles)
		return err
	})
	if err != nil {
		s.logger.Error("Register error for %q: %v", username, err)
		return nil, err
	}

	s.logger.Info("registered user %q id=%d", user.Username, user.ID)

	return NewIdentity(user), nil
}

// resolveRoles maps requested role tokens onto stored roles. No tokens
// means the base user role; unknown tokens also fall back to it.
func (s *Auther) resolveRoles(ctx context.Context, tokens []string) ([]*Role, error) {
	names := make([]RoleName, 0, len(tokens))
	if len(tokens) == 0 {
		names = append(names, RoleUser)
	}
	for _, token := range tokens {
		names = append(names, ParseRoleToken(token))
	}

	seen := map[RoleName]bool{}
	roles := make([]*Role, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		role, err := s.repo.Roles().ByName(ctx, name)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve role").
				WithMetadata(map[string]any{"role": name})
		}
		roles = append(roles, role)
	}

	return roles, nil
}
