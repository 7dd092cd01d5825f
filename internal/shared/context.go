package shared

import "context"

// Identity describes the authenticated caller resolved from a bearer token.
// The acting user id for audit attribution always comes from here, never from
// client-supplied payload fields.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"rol"`
}

// Roles recognised by the authorization policy.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleVendedor   = "vendedor"
)

// IsAdmin reports whether the caller holds the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
