package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

var fixed = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestClientsAreTenantScoped(t *testing.T) {
	s := New().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "t1", models.Client{Name: "Anna"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, fixed, *c.CreatedAt)

	_, err = s.GetClient(ctx, "t2", c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := s.ListClients(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.CreateCheck(ctx, "t2", models.Check{ClientID: c.ID})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteClientRemovesSubcollections(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "t1", models.Client{Name: "Anna"})
	require.NoError(t, err)
	_, err = s.CreateCheck(ctx, "t1", models.Check{ClientID: c.ID})
	require.NoError(t, err)
	_, err = s.CreatePayment(ctx, "t1", models.Payment{ClientID: c.ID, Amount: 50})
	require.NoError(t, err)

	require.NoError(t, s.DeleteClient(ctx, "t1", c.ID))
	assert.ErrorIs(t, s.DeleteClient(ctx, "t1", c.ID), repository.ErrNotFound)

	checks, err := s.ListChecks(ctx, "t1", c.ID)
	require.NoError(t, err)
	assert.Empty(t, checks)
}

func TestNotificationsReadState(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := range 3 {
		_, err := s.CreateNotification(ctx, "t1", models.Notification{
			UserID:    "u1",
			Type:      models.NotificationExpired,
			CreatedAt: fixed.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	list, err := s.ListNotifications(ctx, "t1", "u1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	require.NoError(t, s.MarkRead(ctx, "t1", "u1", list[0].ID))
	assert.ErrorIs(t, s.MarkRead(ctx, "t1", "someone-else", list[1].ID), repository.ErrNotFound)

	unread, err := s.UnreadCount(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	n, err := s.MarkAllRead(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{TenantID: "t1", Email: "Coach@Example.com", Role: "admin"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{TenantID: "t1", Email: "coach@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "COACH@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	assert.Equal(t, []string{u.ID}, s.RoleMembers("t1", tenant.RoleDocAdmins))
}

func TestTenantsAndRoles(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.AddTenant(models.Tenant{ID: "t1", Name: "Studio", AdminIDs: []string{"a1", "shared"}})
	s.SetRoleMembers("t1", tenant.RoleDocSuperadmins, []string{"shared", "s1"})

	tenants, err := s.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, []string{"shared", "s1", "a1"}, tenants[0].AdminIDs)

	removed, err := s.RemoveRoleMember(ctx, "t1", tenant.RoleDocSuperadmins, "shared")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveRoleMember(ctx, "t1", tenant.RoleDocSuperadmins, "shared")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.RemoveRoleMember(ctx, "missing", tenant.RoleDocAdmins, "a1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, []string{"s1"}, s.RoleMembers("t1", tenant.RoleDocSuperadmins))
}
