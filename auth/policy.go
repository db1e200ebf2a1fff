package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Requirement is the access level a rule demands
type Requirement int

const (
	// RequirePublic lets the request through with or without an identity
	RequirePublic Requirement = iota
	// RequireAuthenticated demands a security context, any roles
	RequireAuthenticated
	// RequireRole demands a security context holding one of the rule's roles
	RequireRole
)

// AccessRule binds a method and path pattern to a requirement. Patterns are
// literal paths with an optional "/**" suffix matching any deeper segment.
// An empty method matches every method.
type AccessRule struct {
	Method      string
	Pattern     string
	Requirement Requirement
	Roles       []string
}

// Public allows anonymous access to the pattern for all methods
func Public(pattern string) AccessRule {
	return AccessRule{Pattern: pattern, Requirement: RequirePublic}
}

// Authenticated requires any identity on the pattern for all methods
func Authenticated(pattern string) AccessRule {
	return AccessRule{Pattern: pattern, Requirement: RequireAuthenticated}
}

// RequireRoles requires one of the given roles for the method and pattern
func RequireRoles(method, pattern string, roles ...string) AccessRule {
	return AccessRule{
		Method:      method,
		Pattern:     pattern,
		Requirement: RequireRole,
		Roles:       roles,
	}
}

// AccessPolicy evaluates ordered access rules against each request. The
// first matching rule wins; a request matching no rule requires an
// authenticated identity.
type AccessPolicy struct {
	rules []AccessRule
}

// NewAccessPolicy validates and freezes the rule set. A rule naming a role
// outside the closed role enum fails construction: a misspelled role must
// surface at startup, not as a route that quietly denies everyone.
func NewAccessPolicy(rules ...AccessRule) (*AccessPolicy, error) {
	for _, rule := range rules {
		if rule.Pattern == "" {
			return nil, errors.New("access rule requires a pattern", errors.CategoryBadInput)
		}
		if rule.Requirement == RequireRole && len(rule.Roles) == 0 {
			return nil, errors.New("access rule requires at least one role", errors.CategoryBadInput).
				WithMetadata(map[string]any{"pattern": rule.Pattern})
		}
		for _, role := range rule.Roles {
			if !IsValidRole(role) {
				return nil, errors.New("access rule references unknown role", errors.CategoryBadInput).
					WithMetadata(map[string]any{"pattern": rule.Pattern, "role": role})
			}
		}
	}

	frozen := make([]AccessRule, len(rules))
	copy(frozen, rules)

	return &AccessPolicy{rules: frozen}, nil
}

// MustAccessPolicy is NewAccessPolicy that panics on an invalid rule set
func MustAccessPolicy(rules ...AccessRule) *AccessPolicy {
	policy, err := NewAccessPolicy(rules...)
	if err != nil {
		panic(err)
	}
	return policy
}

// Evaluate decides the request. nil means allowed; ErrUnauthenticated means
// no identity where one was needed; ErrForbidden means the identity lacks a
// required role. The two are distinct so the HTTP layer can answer 401
// versus 403.
func (p *AccessPolicy) Evaluate(method, path string, sctx *SecurityContext) error {
	for _, rule := range p.rules {
		if !rule.matches(method, path) {
			continue
		}
		return rule.evaluate(sctx)
	}

	// no rule claimed the path, default to authenticated-only
	if sctx == nil {
		return ErrUnauthenticated
	}
	return nil
}

// Middleware terminates requests the policy denies. It reads the security
// context the request authenticator published under contextKey.
func (p *AccessPolicy) Middleware(contextKey string) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			sctx, _ := SecurityFromRouter(ctx, contextKey)

			if err := p.Evaluate(ctx.Method(), ctx.Path(), sctx); err != nil {
				if errors.Is(err, ErrForbidden) {
					return ctx.JSON(router.StatusForbidden, map[string]string{
						"message": ErrForbidden.Message,
					})
				}
				return ctx.JSON(router.StatusUnauthorized, map[string]string{
					"message": ErrUnauthenticated.Message,
				})
			}

			return hf(ctx)
		}
	}
}

func (r AccessRule) matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}

	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}

	return path == r.Pattern
}

func (r AccessRule) evaluate(sctx *SecurityContext) error {
	switch r.Requirement {
	case RequirePublic:
		return nil
	case RequireAuthenticated:
		if sctx == nil {
			return ErrUnauthenticated
		}
		return nil
	case RequireRole:
		if sctx == nil {
			return ErrUnauthenticated
		}
		for _, role := range r.Roles {
			if sctx.HasAuthority(role) {
				return nil
			}
		}
		return ErrForbidden
	default:
		return ErrUnauthenticated
	}
}
