package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

// DefaultContextKey is where middleware publishes the security context
var DefaultContextKey = "security"

var securityCtxKey = &contextKey{"security"}

type contextKey struct {
	name string
}

// SecurityContext is the per-request authentication result. A request that
// carried no valid credential simply has none; its absence is what the
// access policy reads as "unauthenticated".
type SecurityContext struct {
	Identity    Identity
	Authorities []string
}

// NewSecurityContext captures the identity and a snapshot of its roles
func NewSecurityContext(identity Identity) *SecurityContext {
	return &SecurityContext{
		Identity:    identity,
		Authorities: identity.Roles(),
	}
}

// HasAuthority checks a role by name
func (s *SecurityContext) HasAuthority(role string) bool {
	if s == nil {
		return false
	}
	for _, authority := range s.Authorities {
		if authority == role {
			return true
		}
	}
	return false
}

// WithSecurityContext sets the SecurityContext in the given context
func WithSecurityContext(ctx context.Context, sctx *SecurityContext) context.Context {
	return context.WithValue(ctx, securityCtxKey, sctx)
}

// SecurityFromContext finds the security context in a standard context
func SecurityFromContext(ctx context.Context) (*SecurityContext, bool) {
	raw, ok := ctx.Value(securityCtxKey).(*SecurityContext)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// SecurityFromRouter extracts the security context from the router context
func SecurityFromRouter(ctx router.Context, key string) (*SecurityContext, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	sctx, ok := raw.(*SecurityContext)
	if !ok || sctx == nil {
		return nil, false
	}
	return sctx, true
}
