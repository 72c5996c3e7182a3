package firestoredb

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

type tenantDoc struct {
	Name       string `firestore:"name"`
	OwnerEmail string `firestore:"ownerEmail"`
}

type roleDoc struct {
	UIDs []string `firestore:"uids"`
}

// ListTenants walks tenants/ including ids that only exist as parents of
// subcollections, and merges each tenant's superadmin and admin uids.
func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	refs, err := s.client.Collection(tenant.Root).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list tenant refs: %w", err)
	}

	tenants := make([]models.Tenant, 0, len(refs))
	for _, ref := range refs {
		t := models.Tenant{ID: ref.ID, AdminIDs: []string{}}

		snaps, err := s.client.GetAll(ctx, []*firestore.DocumentRef{
			ref,
			s.client.Doc(s.paths.RoleDocPath(ref.ID, tenant.RoleDocSuperadmins)),
			s.client.Doc(s.paths.RoleDocPath(ref.ID, tenant.RoleDocAdmins)),
		})
		if err != nil {
			return nil, fmt.Errorf("load tenant %s: %w", ref.ID, err)
		}

		if snaps[0].Exists() {
			var doc tenantDoc
			if err := snaps[0].DataTo(&doc); err != nil {
				return nil, fmt.Errorf("decode tenant %s: %w", ref.ID, err)
			}
			t.Name, t.OwnerEmail = doc.Name, doc.OwnerEmail
		}
		for _, snap := range snaps[1:] {
			if !snap.Exists() {
				continue
			}
			var rd roleDoc
			if err := snap.DataTo(&rd); err != nil {
				return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
			}
			for _, uid := range rd.UIDs {
				if !slices.Contains(t.AdminIDs, uid) {
					t.AdminIDs = append(t.AdminIDs, uid)
				}
			}
		}

		tenants = append(tenants, t)
	}
	return tenants, nil
}

// RemoveRoleMember reads the role document, filters uid out of its uids
// array and writes the array back.
func (s *Store) RemoveRoleMember(ctx context.Context, tenantID, roleDocName, uid string) (bool, error) {
	ref := s.client.Doc(s.paths.RoleDocPath(tenantID, roleDocName))

	removed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var rd roleDoc
		if err := snap.DataTo(&rd); err != nil {
			return err
		}

		kept := slices.DeleteFunc(slices.Clone(rd.UIDs), func(id string) bool { return id == uid })
		removed = len(kept) != len(rd.UIDs)
		if kept == nil {
			kept = []string{}
		}
		return tx.Update(ref, []firestore.Update{{Path: "uids", Value: kept}})
	})
	if err != nil {
		if isNotFound(err) {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("update %s: %w", ref.Path, err)
	}
	return removed, nil
}
