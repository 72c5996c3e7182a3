package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-backend/internal/repository"
	"coaching-backend/internal/repository/memory"
	"coaching-backend/internal/tenant"
)

func TestRevokeRemovesFromBothRoles(t *testing.T) {
	store := memory.New()
	store.SetRoleMembers("studio", tenant.RoleDocSuperadmins, []string{"alex", "sam"})
	store.SetRoleMembers("studio", tenant.RoleDocAdmins, []string{"alex", "kim"})

	var out bytes.Buffer
	require.NoError(t, revoke(context.Background(), store, "studio", "alex", &out))

	assert.Equal(t, []string{"sam"}, store.RoleMembers("studio", tenant.RoleDocSuperadmins))
	assert.Equal(t, []string{"kim"}, store.RoleMembers("studio", tenant.RoleDocAdmins))
	assert.Equal(t,
		"removed alex from tenants/studio/roles/superadmins\nremoved alex from tenants/studio/roles/admins\n",
		out.String())

	out.Reset()
	require.NoError(t, revoke(context.Background(), store, "studio", "alex", &out))
	assert.Contains(t, out.String(), "alex not in tenants/studio/roles/admins")
}

func TestRevokeStopsWithoutRollback(t *testing.T) {
	store := memory.New()
	store.SetRoleMembers("studio", tenant.RoleDocSuperadmins, []string{"alex"})

	err := revoke(context.Background(), store, "studio", "alex", &bytes.Buffer{})
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "update admins")

	// The first document stays updated.
	assert.Empty(t, store.RoleMembers("studio", tenant.RoleDocSuperadmins))
}

func TestRevokeUnknownTenant(t *testing.T) {
	err := revoke(context.Background(), memory.New(), "ghost", "alex", &bytes.Buffer{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRealMainRequiresFlags(t *testing.T) {
	assert.Error(t, realMain("", "alex"))
	assert.Error(t, realMain("studio", ""))
}
