package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/coderhythm/garden-admin/auth"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (auth.Identity, error) {
	args := m.Called(ctx, username, password)
	if identity := args.Get(0); identity != nil {
		return identity.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (auth.Identity, error) {
	args := m.Called(ctx, username)
	if identity := args.Get(0); identity != nil {
		return identity.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func newAuthenticatorFixture(t *testing.T) (*auth.TokenServiceImpl, *MockIdentityProvider, router.MiddlewareFunc) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("middleware-test-key"), 24, "garden-admin", nil)
	provider := new(MockIdentityProvider)
	mw := auth.NewRequestAuthenticator(auth.MiddlewareConfig{
		TokenService:     tokens,
		IdentityProvider: provider,
		BypassPrefixes:   []string{"/auth/", "/avatars/"},
	})
	return tokens, provider, mw
}

func newMiddlewareContext(authorization string) *router.MockContext {
	ctx := router.NewMockContext()
	ctx.On("Path").Return("/maintenance-companies")
	ctx.On("GetString", router.HeaderAuthorization, "").Return(authorization)
	ctx.On("Context").Return(context.Background()).Maybe()
	ctx.On("SetContext", mock.Anything).Maybe()
	return ctx
}

func TestRequestAuthenticator(t *testing.T) {
	t.Run("publishes security context for a valid token", func(t *testing.T) {
		tokens, provider, mw := newAuthenticatorFixture(t)

		tokenString, err := tokens.Generate("gardener")
		assert.NoError(t, err)

		identity := auth.NewIdentity(adminTestUser(t, "Admin@123"))
		provider.On("FindIdentityByUsername", mock.Anything, "gardener").
			Return(identity, nil).Once()

		ctx := newMiddlewareContext("Bearer " + tokenString)
		ctx.On("Locals", auth.DefaultContextKey, mock.Anything).Return(nil).Once()

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			sctx, ok := auth.SecurityFromRouter(c, "")
			assert.True(t, ok)
			assert.Equal(t, "gardener", sctx.Identity.Username())
			assert.True(t, sctx.HasAuthority(auth.RoleAdmin))
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertExpectations(t)
		ctx.AssertExpectations(t)
	})

	t.Run("continues anonymous without a header", func(t *testing.T) {
		_, provider, mw := newAuthenticatorFixture(t)

		ctx := newMiddlewareContext("")

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			_, ok := auth.SecurityFromRouter(c, "")
			assert.False(t, ok)
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertNotCalled(t, "FindIdentityByUsername", mock.Anything, mock.Anything)
	})

	t.Run("continues anonymous with a wrong scheme", func(t *testing.T) {
		_, provider, mw := newAuthenticatorFixture(t)

		ctx := newMiddlewareContext("Basic Z2FyZGVuZXI6cGFzcw==")

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertNotCalled(t, "FindIdentityByUsername", mock.Anything, mock.Anything)
	})

	t.Run("continues anonymous with an expired token", func(t *testing.T) {
		_, provider, mw := newAuthenticatorFixture(t)

		issueTime := time.Now().Add(-48 * time.Hour)
		stale := auth.NewTokenService([]byte("middleware-test-key"), 24, "garden-admin", nil).
			WithClock(func() time.Time { return issueTime })
		tokenString, err := stale.Generate("gardener")
		assert.NoError(t, err)

		ctx := newMiddlewareContext("Bearer " + tokenString)

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			_, ok := auth.SecurityFromRouter(c, "")
			assert.False(t, ok)
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertNotCalled(t, "FindIdentityByUsername", mock.Anything, mock.Anything)
	})

	t.Run("continues anonymous with a tampered token", func(t *testing.T) {
		_, provider, mw := newAuthenticatorFixture(t)

		forged := auth.NewTokenService([]byte("attacker-key"), 24, "garden-admin", nil)
		tokenString, err := forged.Generate("gardener")
		assert.NoError(t, err)

		ctx := newMiddlewareContext("Bearer " + tokenString)

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertNotCalled(t, "FindIdentityByUsername", mock.Anything, mock.Anything)
	})

	t.Run("continues anonymous when the account no longer exists", func(t *testing.T) {
		tokens, provider, mw := newAuthenticatorFixture(t)

		tokenString, err := tokens.Generate("ghost")
		assert.NoError(t, err)

		provider.On("FindIdentityByUsername", mock.Anything, "ghost").
			Return(nil, auth.ErrIdentityNotFound).Once()

		ctx := newMiddlewareContext("Bearer " + tokenString)

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			_, ok := auth.SecurityFromRouter(c, "")
			assert.False(t, ok)
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		provider.AssertExpectations(t)
	})

	t.Run("contains a resolution panic", func(t *testing.T) {
		tokens, provider, mw := newAuthenticatorFixture(t)

		tokenString, err := tokens.Generate("gardener")
		assert.NoError(t, err)

		provider.On("FindIdentityByUsername", mock.Anything, "gardener").
			Run(func(args mock.Arguments) { panic("store gone") }).
			Return(nil, nil).Once()

		ctx := newMiddlewareContext("Bearer " + tokenString)

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			_, ok := auth.SecurityFromRouter(c, "")
			assert.False(t, ok)
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
	})

	t.Run("skips extraction for bypass prefixes", func(t *testing.T) {
		_, provider, mw := newAuthenticatorFixture(t)

		ctx := router.NewMockContext()
		ctx.On("Path").Return("/auth/signin")

		nextCalled := false
		handler := mw(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
		ctx.AssertNotCalled(t, "GetString", router.HeaderAuthorization, "")
		provider.AssertNotCalled(t, "FindIdentityByUsername", mock.Anything, mock.Anything)
	})
}
