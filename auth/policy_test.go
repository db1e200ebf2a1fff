package auth_test

import (
	"net/http"
	"testing"

	"github.com/coderhythm/garden-admin/auth"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func deployedPolicy(t *testing.T) *auth.AccessPolicy {
	t.Helper()
	policy, err := auth.NewAccessPolicy(
		auth.Public("/auth/**"),
		auth.Public("/avatars/**"),
		auth.RequireRoles("", "/users/**", auth.RoleAdmin),
		auth.RequireRoles(http.MethodPost, "/maintenance-companies/**", auth.RoleAdmin),
		auth.RequireRoles(http.MethodPut, "/maintenance-companies/**", auth.RoleAdmin),
		auth.RequireRoles(http.MethodDelete, "/maintenance-companies/**", auth.RoleAdmin),
		auth.Authenticated("/maintenance-companies/**"),
		auth.Authenticated("/profile/**"),
	)
	assert.NoError(t, err)
	return policy
}

func securityContextWithRoles(t *testing.T, roles ...auth.RoleName) *auth.SecurityContext {
	t.Helper()
	user := adminTestUser(t, "Admin@123")
	user.Roles = nil
	for i, name := range roles {
		user.Roles = append(user.Roles, &auth.Role{ID: int64(i + 1), Name: name})
	}
	return auth.NewSecurityContext(auth.NewIdentity(user))
}

func TestNewAccessPolicy(t *testing.T) {
	t.Run("accepts rules over the closed role set", func(t *testing.T) {
		policy, err := auth.NewAccessPolicy(
			auth.RequireRoles("", "/users/**", auth.RoleAdmin, auth.RoleModerator),
		)
		assert.NoError(t, err)
		assert.NotNil(t, policy)
	})

	t.Run("rejects unknown roles at construction", func(t *testing.T) {
		policy, err := auth.NewAccessPolicy(
			auth.RequireRoles("", "/users/**", "ROLE_SUPERUSER"),
		)
		assert.Error(t, err)
		assert.Nil(t, policy)
		assert.Contains(t, err.Error(), "unknown role")
	})

	t.Run("rejects role rules without roles", func(t *testing.T) {
		policy, err := auth.NewAccessPolicy(
			auth.AccessRule{Pattern: "/users/**", Requirement: auth.RequireRole},
		)
		assert.Error(t, err)
		assert.Nil(t, policy)
	})

	t.Run("rejects rules without a pattern", func(t *testing.T) {
		policy, err := auth.NewAccessPolicy(auth.Public(""))
		assert.Error(t, err)
		assert.Nil(t, policy)
	})
}

func TestAccessPolicyEvaluate(t *testing.T) {
	policy := deployedPolicy(t)
	admin := securityContextWithRoles(t, auth.RoleUser, auth.RoleAdmin)
	member := securityContextWithRoles(t, auth.RoleUser)

	t.Run("public routes allow anonymous requests", func(t *testing.T) {
		assert.NoError(t, policy.Evaluate(http.MethodPost, "/auth/signin", nil))
		assert.NoError(t, policy.Evaluate(http.MethodGet, "/avatars/7.png", nil))
	})

	t.Run("anonymous request on a protected route is unauthenticated", func(t *testing.T) {
		err := policy.Evaluate(http.MethodGet, "/maintenance-companies", nil)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("authenticated member reads maintenance data", func(t *testing.T) {
		assert.NoError(t, policy.Evaluate(http.MethodGet, "/maintenance-companies", member))
		assert.NoError(t, policy.Evaluate(http.MethodGet, "/maintenance-companies/3", member))
	})

	t.Run("member writing maintenance data is forbidden", func(t *testing.T) {
		err := policy.Evaluate(http.MethodPost, "/maintenance-companies", member)
		assert.ErrorIs(t, err, auth.ErrForbidden)

		err = policy.Evaluate(http.MethodDelete, "/maintenance-companies/3", member)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("admin writes maintenance data", func(t *testing.T) {
		assert.NoError(t, policy.Evaluate(http.MethodPost, "/maintenance-companies", admin))
		assert.NoError(t, policy.Evaluate(http.MethodDelete, "/maintenance-companies/3", admin))
	})

	t.Run("user admin routes are admin only", func(t *testing.T) {
		assert.NoError(t, policy.Evaluate(http.MethodGet, "/users", admin))
		assert.ErrorIs(t, policy.Evaluate(http.MethodGet, "/users", member), auth.ErrForbidden)
		assert.ErrorIs(t, policy.Evaluate(http.MethodGet, "/users/9", nil), auth.ErrUnauthenticated)
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		// the role rules for writes sit above the blanket authenticated rule
		err := policy.Evaluate(http.MethodPut, "/maintenance-companies/3", member)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("unmatched routes default to authenticated", func(t *testing.T) {
		assert.ErrorIs(t, policy.Evaluate(http.MethodGet, "/reports", nil), auth.ErrUnauthenticated)
		assert.NoError(t, policy.Evaluate(http.MethodGet, "/reports", member))
	})

	t.Run("prefix patterns match the bare prefix", func(t *testing.T) {
		assert.ErrorIs(t, policy.Evaluate(http.MethodGet, "/users", nil), auth.ErrUnauthenticated)
	})
}

func TestAccessPolicyMiddleware(t *testing.T) {
	policy := deployedPolicy(t)

	t.Run("denied anonymous request answers 401", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("Method").Return(http.MethodGet)
		ctx.On("Path").Return("/maintenance-companies")
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil).Once()

		nextCalled := false
		handler := policy.Middleware("")(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.False(t, nextCalled)
		ctx.AssertExpectations(t)
	})

	t.Run("denied member write answers 403", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock[auth.DefaultContextKey] = securityContextWithRoles(t, auth.RoleUser)
		ctx.On("Method").Return(http.MethodPost)
		ctx.On("Path").Return("/maintenance-companies")
		ctx.On("JSON", router.StatusForbidden, mock.Anything).Return(nil).Once()

		nextCalled := false
		handler := policy.Middleware("")(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.False(t, nextCalled)
		ctx.AssertExpectations(t)
	})

	t.Run("allowed request reaches the handler", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock[auth.DefaultContextKey] = securityContextWithRoles(t, auth.RoleUser, auth.RoleAdmin)
		ctx.On("Method").Return(http.MethodPost)
		ctx.On("Path").Return("/maintenance-companies")

		nextCalled := false
		handler := policy.Middleware("")(func(c router.Context) error {
			nextCalled = true
			return nil
		})

		assert.NoError(t, handler(ctx))
		assert.True(t, nextCalled)
	})
}
