// Package tenant maps logical collection names onto tenant-namespaced
// document paths (tenants/{tenantId}/...).
package tenant

import "strings"

// Root is the top-level collection holding one document per tenant.
const Root = "tenants"

// Logical collection names.
const (
	Clients       = "clients"
	Checks        = "checks"
	Payments      = "payments"
	Anamnesis     = "anamnesi"
	Notifications = "notifications"
	Roles         = "roles"
)

// Role documents under tenants/{id}/roles.
const (
	RoleDocSuperadmins = "superadmins"
	RoleDocAdmins      = "admins"
)

// Resolver builds tenant paths, substituting a default when a request
// carries no tenant.
type Resolver struct {
	Default string
}

// NewResolver returns a Resolver falling back to defaultTenant.
func NewResolver(defaultTenant string) Resolver {
	return Resolver{Default: defaultTenant}
}

// ID returns tenantID, or the default when empty.
func (r Resolver) ID(tenantID string) string {
	if tenantID == "" {
		return r.Default
	}
	return tenantID
}

// CollectionPath returns tenants/{t}/{name}.
func (r Resolver) CollectionPath(tenantID, name string) string {
	return join(Root, r.ID(tenantID), name)
}

// DocPath returns tenants/{t}/{name}/{docID}.
func (r Resolver) DocPath(tenantID, name, docID string) string {
	return join(Root, r.ID(tenantID), name, docID)
}

// SubcollectionPath returns tenants/{t}/{parent}/{parentID}/{sub}.
func (r Resolver) SubcollectionPath(tenantID, parent, parentID, sub string) string {
	return join(Root, r.ID(tenantID), parent, parentID, sub)
}

// RoleDocPath returns tenants/{t}/roles/{roleDoc}.
func (r Resolver) RoleDocPath(tenantID, roleDoc string) string {
	return r.DocPath(tenantID, Roles, roleDoc)
}

func join(parts ...string) string {
	return strings.Join(parts, "/")
}
