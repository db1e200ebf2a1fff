package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// MiddlewareConfig configures the request authentication middleware
type MiddlewareConfig struct {
	// TokenService validates the bearer credential
	TokenService TokenService
	// IdentityProvider resolves token subjects to live principals
	IdentityProvider IdentityProvider
	// ContextKey is the locals key the security context is published under
	ContextKey string
	// AuthScheme is the expected Authorization scheme, "Bearer" by default
	AuthScheme string
	// BypassPrefixes skips extraction entirely for matching path prefixes,
	// e.g. the sign in endpoints and static avatar assets
	BypassPrefixes []string
	// Logger receives per-request trace output
	Logger Logger
}

func (cfg MiddlewareConfig) withDefaults() MiddlewareConfig {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	return cfg
}

// NewRequestAuthenticator builds the middleware that turns a bearer token
// into a security context. It never terminates the request: on any failure
// the request simply continues anonymous, and the access policy downstream
// decides whether that matters for the route.
func NewRequestAuthenticator(config MiddlewareConfig) router.MiddlewareFunc {
	cfg := config.withDefaults()
	if cfg.TokenService == nil {
		panic("AUTH: request authenticator configuration: TokenService is required.")
	}
	if cfg.IdentityProvider == nil {
		panic("AUTH: request authenticator configuration: IdentityProvider is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if pathHasPrefix(ctx.Path(), cfg.BypassPrefixes) {
				return hf(ctx)
			}

			raw := extractBearerToken(ctx, cfg.AuthScheme)
			if raw == "" {
				return hf(ctx)
			}

			claims, err := cfg.TokenService.Validate(raw)
			if err != nil {
				cfg.Logger.Debug("request token rejected: %v", err)
				return hf(ctx)
			}

			sctx := resolveSecurityContext(ctx, cfg, claims.Subject())
			if sctx == nil {
				return hf(ctx)
			}

			ctx.Locals(cfg.ContextKey, sctx)
			ctx.SetContext(WithSecurityContext(ctx.Context(), sctx))

			return hf(ctx)
		}
	}
}

// resolveSecurityContext looks up the live principal for a validated
// subject. A panic out of the identity provider is contained here so a
// resolution bug degrades to an anonymous request instead of a crash.
func resolveSecurityContext(ctx router.Context, cfg MiddlewareConfig, subject string) (sctx *SecurityContext) {
	defer func() {
		if r := recover(); r != nil {
			cfg.Logger.Error("identity resolution panicked for subject %q: %v", subject, r)
			sctx = nil
		}
	}()

	identity, err := cfg.IdentityProvider.FindIdentityByUsername(ctx.Context(), subject)
	if err != nil {
		cfg.Logger.Debug("identity resolution failed for subject %q: %v", subject, err)
		return nil
	}

	return NewSecurityContext(identity)
}

func extractBearerToken(ctx router.Context, authScheme string) string {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return ""
	}

	scheme := strings.TrimSpace(authScheme)
	l := len(scheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:])
	}

	return ""
}

func pathHasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
