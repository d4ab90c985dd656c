package permissions

import (
	"context"
	"slices"
	"strings"

	"sarana/shared/constant"
	"sarana/shared/failure"
)

// Principal is the authenticated caller. AllModules marks a user whose privilege set is unrestricted.
type Principal struct {
	UserID     string   `json:"user_id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Privileges []string `json:"privileges"`
	AllModules bool     `json:"all_modules"`
}

// Capability is a role set intersected with an optional module.
type Capability struct {
	Roles  []string
	Module string
}

func (c Capability) String() string {
	roles := strings.Join(c.Roles, "|")
	if c.Module == "" {
		return roles
	}

	if roles == "" {
		return c.Module
	}

	return roles + ":" + c.Module
}

// Borrow allows members and management to request a resource of module.
func Borrow(module string) Capability {
	return Capability{Roles: []string{constant.RoleMember, constant.RoleManagement}, Module: module}
}

// Decide allows management holding module to approve, reject or close requests.
func Decide(module string) Capability {
	return Capability{Roles: []string{constant.RoleManagement}, Module: module}
}

// Manage allows management holding module to administer its catalog.
func Manage(module string) Capability {
	return Capability{Roles: []string{constant.RoleManagement}, Module: module}
}

func (p Principal) IsManagement() bool {
	return p.Role == constant.RoleManagement
}

func (p Principal) HasModule(module string) bool {
	if module == "" || p.AllModules {
		return true
	}

	return slices.Contains(p.Privileges, module)
}

// Modules returns the explicit privilege set, or nil when every module is allowed.
func (p Principal) Modules() []string {
	if p.AllModules {
		return nil
	}

	if p.Privileges == nil {
		return []string{}
	}

	return p.Privileges
}

// Can returns an authorization failure unless the principal satisfies c.
func (p Principal) Can(c Capability) error {
	if len(c.Roles) > 0 && !slices.Contains(c.Roles, p.Role) {
		return failure.Authorization(c.String())
	}

	if !p.HasModule(c.Module) {
		return failure.Authorization(c.String())
	}

	return nil
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, p.Role)

	return context.WithValue(ctx, constant.ContextKeyPrincipal, p)
}

// PrincipalFromContext returns the principal placed by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(constant.ContextKeyPrincipal).(Principal)

	return p, ok
}

// Require loads the principal from ctx and checks c against it.
func Require(ctx context.Context, c Capability) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return p, failure.Unauthorized("missing authenticated principal")
	}

	return p, p.Can(c)
}
