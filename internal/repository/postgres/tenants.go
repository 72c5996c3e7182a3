package postgres

import (
	"context"
	"fmt"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

// ListTenants returns every tenant with the union of its superadmin and
// admin uids.
func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	rows, err := s.db.GetPool().Query(ctx, `
		SELECT t.id, t.name, t.owner_email,
		       COALESCE(array_agg(DISTINCT r.uid) FILTER (WHERE r.uid IS NOT NULL), '{}')
		FROM tenants t
		LEFT JOIN tenant_roles r
		       ON r.tenant_id = t.id AND r.role_doc IN ($1, $2)
		GROUP BY t.id, t.name, t.owner_email, t.created_at
		ORDER BY t.created_at, t.id`,
		tenant.RoleDocSuperadmins, tenant.RoleDocAdmins)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.OwnerEmail, &t.AdminIDs); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *Store) RemoveRoleMember(ctx context.Context, tenantID, roleDoc, uid string) (bool, error) {
	pool := s.db.GetPool()

	var exists bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)`, tenantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tenant: %w", err)
	}
	if !exists {
		return false, repository.ErrNotFound
	}

	tag, err := pool.Exec(ctx,
		`DELETE FROM tenant_roles WHERE tenant_id = $1 AND role_doc = $2 AND uid = $3`,
		tenantID, roleDoc, uid)
	if err != nil {
		return false, fmt.Errorf("remove %s from %s: %w", uid, roleDoc, err)
	}
	return tag.RowsAffected() > 0, nil
}
