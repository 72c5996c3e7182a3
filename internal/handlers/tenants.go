package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

// TenantHandler lists tenants and revokes role memberships.
type TenantHandler struct {
	dir repository.TenantDirectory
}

// NewTenantHandler creates a TenantHandler.
func NewTenantHandler(dir repository.TenantDirectory) *TenantHandler {
	return &TenantHandler{dir: dir}
}

// List handles GET /api/tenants
// superadmin sees every tenant; admin sees only their own.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	all, err := h.dir.ListTenants(ctx)
	if err != nil {
		storeError(w, err, "Tenant", "fetch tenants")
		return
	}

	visible := make([]models.Tenant, 0, len(all))
	for _, t := range all {
		if ctxkeys.GetRole(ctx) == ctxkeys.RoleSuperadmin || t.ID == ctxkeys.GetTenantID(ctx) {
			visible = append(visible, t)
		}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"data": visible})
}

// RevokeRole handles DELETE /api/tenants/{id}/roles/{role}/{uid}
// admin may only drop admins of their own tenant; superadmin may drop
// anyone anywhere. Nobody can revoke themselves.
func (h *TenantHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")
	roleDoc := chi.URLParam(r, "role")
	uid := chi.URLParam(r, "uid")

	ctx, cancel := withTimeout(r)
	defer cancel()

	if roleDoc != tenant.RoleDocSuperadmins && roleDoc != tenant.RoleDocAdmins {
		JSONError(w, http.StatusBadRequest, "role must be 'superadmins' or 'admins'")
		return
	}
	if uid == ctxkeys.GetUserID(ctx) {
		JSONError(w, http.StatusBadRequest, "Cannot revoke your own role")
		return
	}
	if ctxkeys.GetRole(ctx) != ctxkeys.RoleSuperadmin &&
		(roleDoc != tenant.RoleDocAdmins || tenantID != ctxkeys.GetTenantID(ctx)) {
		JSONError(w, http.StatusForbidden, "Only superadmin can revoke superadmins or other tenants' admins")
		return
	}

	removed, err := h.dir.RemoveRoleMember(ctx, tenantID, roleDoc, uid)
	if err != nil {
		storeError(w, err, "Tenant role", "revoke role")
		return
	}
	if !removed {
		JSONError(w, http.StatusNotFound, "User does not hold this role")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Role revoked successfully"})
}
