// Package ctxkeys defines typed context keys shared between middleware and handlers.
// This avoids import cycles: both middleware and handlers import this package,
// but neither imports the other for context key types.
package ctxkeys

import "context"

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID   Key = "userID"
	UserRole Key = "userRole"
	TenantID Key = "tenantID"
)

// Role names, lowest to highest.
const (
	RoleClient     = "client"
	RoleCoach      = "coach"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// ValidRoles lists all valid role strings.
var ValidRoles = map[string]bool{
	RoleClient:     true,
	RoleCoach:      true,
	RoleAdmin:      true,
	RoleSuperadmin: true,
}

// RoleLevel maps role names to permission levels.
var RoleLevel = map[string]int{
	RoleClient:     1,
	RoleCoach:      2,
	RoleAdmin:      3,
	RoleSuperadmin: 4,
}

// GetUserID returns the authenticated user's ID, or "" if absent.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserID).(string)
	return id
}

// GetRole returns the authenticated user's role, or "" if absent.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(UserRole).(string)
	return role
}

// GetTenantID returns the tenant the request is scoped to, or "" if absent.
func GetTenantID(ctx context.Context) string {
	id, _ := ctx.Value(TenantID).(string)
	return id
}

// WithIdentity returns a context carrying the user, role and tenant.
func WithIdentity(ctx context.Context, userID, role, tenantID string) context.Context {
	ctx = context.WithValue(ctx, UserID, userID)
	ctx = context.WithValue(ctx, UserRole, role)
	return context.WithValue(ctx, TenantID, tenantID)
}
