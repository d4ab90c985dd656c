package middleware

import (
	"context"
	"errors"
	"net/http"

	"sarana/config"
	"sarana/infras/jwt"
	"sarana/infras/otel"
	"sarana/permissions"
	"sarana/shared/constant"
	"sarana/shared/failure"
	"sarana/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

// PrincipalResolver loads the current role and privileges of an authenticated user.
type PrincipalResolver interface {
	Principal(ctx context.Context, userID string) (permissions.Principal, error)
}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

// tokenFailures maps token validation errors to the message the client sees, first match wins.
var tokenFailures = []struct {
	err     error
	message string
}{
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidToken, "Invalid token"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
}

var systemPrincipal = permissions.Principal{
	UserID:     constant.ContextSystem,
	Name:       constant.ContextSystem,
	Role:       constant.RoleManagement,
	AllModules: true,
}

type authRoleImpl struct {
	tokens     jwt.JWT
	principals PrincipalResolver
	otel       otel.Otel
	rules      *permissions.PermissionData
	apiKey     string
}

func NewAuthRoleMiddleware(
	tokens jwt.JWT,
	principals PrincipalResolver,
	otl otel.Otel,
	rules *permissions.PermissionData,
	cfg *config.Config,
) AuthRole {
	return &authRoleImpl{
		tokens:     tokens,
		principals: principals,
		otel:       otl,
		rules:      rules,
		apiKey:     cfg.App.APIKey,
	}
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

// abort ends the scope after recording err and writes the error response.
func abort(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	scope.End()
	response.WithError(w, err)
}

// rule resolves the chi route pattern for r so parameterised paths match their configured entry.
func (m *authRoleImpl) rule(r *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path, permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
	if m.rules == nil {
		return pattern, permissions.Permission{}
	}

	return pattern, m.rules.FindPermissions(pattern, r.Method)
}

// authenticate turns the Authorization header into claims and the caller's current principal.
func (m *authRoleImpl) authenticate(ctx context.Context, header string) (*jwt.Claims, permissions.Principal, error) {
	if header == "" {
		return nil, permissions.Principal{}, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, permissions.Principal{}, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.tokens.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		message := "Token validation failed"

		for _, tf := range tokenFailures {
			if errors.Is(err, tf.err) {
				message = tf.message

				break
			}
		}

		return nil, permissions.Principal{}, failure.Unauthorized(message)
	}

	if claims.UserID == "" {
		log.Error().Str("token_id", claims.TokenID).Msg("access token carries no user id")

		return nil, permissions.Principal{}, failure.Unauthorized("Invalid token claims")
	}

	// Role and privileges are reloaded on every request so changes apply immediately.
	principal, err := m.principals.Principal(ctx, claims.UserID)
	if err != nil {
		return nil, permissions.Principal{}, err //nolint:wrapcheck
	}

	return claims, principal, nil
}

func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		pattern, rule := m.rule(r)
		if skipped(ctx) || rule.Skip {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       pattern,
			"http.method":     r.Method,
		})

		claims, principal, err := m.authenticate(ctx, r.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			abort(w, scope, err)

			return
		}

		scope.SetAttribute("user.id", principal.UserID)
		scope.End()

		ctx = permissions.WithPrincipal(r.Context(), principal)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RBAC checks the route's role set and module against the principal attached by Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if skipped(ctx) {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		if m.rules == nil {
			abort(w, scope, failure.ForbiddenError)

			return
		}

		_, rule := m.rule(r)
		if m.rules.Skip || rule.Skip || (len(rule.Permissions) == 0 && rule.Module == "") {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		principal, ok := permissions.PrincipalFromContext(ctx)
		if !ok {
			abort(w, scope, failure.Unauthorized("missing authenticated principal"))

			return
		}

		if err := principal.Can(rule.Capability()); err != nil {
			scope.SetAttributes(map[string]any{
				"user.role":     principal.Role,
				"allowed_roles": rule.Permissions,
				"module":        rule.Module,
			})
			abort(w, scope, err)

			return
		}

		scope.End()
		next.ServeHTTP(w, r)
	})
}

// APIKey lets internal callers through as the system principal. Requests without the header
// continue to Auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.apiKey == "" || key != m.apiKey {
			abort(w, scope, failure.ForbiddenError)

			return
		}

		scope.End()

		ctx = context.WithValue(ctx, skipAuth, true)
		ctx = permissions.WithPrincipal(ctx, systemPrincipal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
