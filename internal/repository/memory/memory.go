// Package memory is an in-process Backend used by tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

type tenantData struct {
	info          models.Tenant
	clientOrder   []string
	clients       map[string]models.Client
	checks        map[string][]models.Check
	payments      map[string][]models.Payment
	anamnesis     map[string][]models.Anamnesis
	notifications []models.Notification
	roles         map[string][]string
}

// Store keeps everything in maps guarded by one RWMutex.
type Store struct {
	mu      sync.RWMutex
	tenants map[string]*tenantData
	order   []string
	users   map[string]models.User
	now     func() time.Time
}

var _ repository.Backend = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		tenants: make(map[string]*tenantData),
		users:   make(map[string]models.User),
		now:     time.Now,
	}
}

// WithClock overrides the clock used for createdAt stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AddTenant registers a tenant. AdminIDs are stored in the admins role doc.
func (s *Store) AddTenant(t models.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(t.ID)
	td.info = models.Tenant{ID: t.ID, Name: t.Name, OwnerEmail: t.OwnerEmail}
	td.roles[tenant.RoleDocAdmins] = append([]string(nil), t.AdminIDs...)
}

// SetRoleMembers replaces the uids of one role document.
func (s *Store) SetRoleMembers(tenantID, roleDoc string, uids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant(tenantID).roles[roleDoc] = append([]string(nil), uids...)
}

// RoleMembers returns a copy of the uids in a role document.
func (s *Store) RoleMembers(tenantID, roleDoc string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return nil
	}
	return append([]string(nil), td.roles[roleDoc]...)
}

// tenant returns the tenant bucket, creating it. Caller holds the write lock.
func (s *Store) tenant(id string) *tenantData {
	td, ok := s.tenants[id]
	if !ok {
		td = &tenantData{
			info:      models.Tenant{ID: id},
			clients:   make(map[string]models.Client),
			checks:    make(map[string][]models.Check),
			payments:  make(map[string][]models.Payment),
			anamnesis: make(map[string][]models.Anamnesis),
			roles:     make(map[string][]string),
		}
		s.tenants[id] = td
		s.order = append(s.order, id)
	}
	return td
}

func (s *Store) stamp() *time.Time {
	t := s.now()
	return &t
}

// ── Clients ──────────────────────────────────────────────────────

func (s *Store) ListClients(_ context.Context, tenantID string) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return []models.Client{}, nil
	}
	out := make([]models.Client, 0, len(td.clientOrder))
	for _, id := range td.clientOrder {
		out = append(out, td.clients[id])
	}
	return out, nil
}

func (s *Store) GetClient(_ context.Context, tenantID, clientID string) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return models.Client{}, repository.ErrNotFound
	}
	c, ok := td.clients[clientID]
	if !ok {
		return models.Client{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateClient(_ context.Context, tenantID string, c models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(tenantID)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt == nil {
		c.CreatedAt = s.stamp()
	}
	c.UpdatedAt = c.CreatedAt
	if _, exists := td.clients[c.ID]; !exists {
		td.clientOrder = append(td.clientOrder, c.ID)
	}
	td.clients[c.ID] = c
	return c, nil
}

func (s *Store) UpdateClient(_ context.Context, tenantID string, c models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return models.Client{}, repository.ErrNotFound
	}
	if _, ok := td.clients[c.ID]; !ok {
		return models.Client{}, repository.ErrNotFound
	}
	c.UpdatedAt = s.stamp()
	td.clients[c.ID] = c
	return c, nil
}

func (s *Store) DeleteClient(_ context.Context, tenantID, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := td.clients[clientID]; !ok {
		return repository.ErrNotFound
	}
	delete(td.clients, clientID)
	delete(td.checks, clientID)
	delete(td.payments, clientID)
	delete(td.anamnesis, clientID)
	for i, id := range td.clientOrder {
		if id == clientID {
			td.clientOrder = append(td.clientOrder[:i], td.clientOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ── Subcollections ───────────────────────────────────────────────

func (s *Store) ListChecks(_ context.Context, tenantID, clientID string) ([]models.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return []models.Check{}, nil
	}
	return append([]models.Check{}, td.checks[clientID]...), nil
}

func (s *Store) CreateCheck(_ context.Context, tenantID string, ch models.Check) (models.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(tenantID)
	if _, ok := td.clients[ch.ClientID]; !ok {
		return models.Check{}, repository.ErrNotFound
	}
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	if ch.CreatedAt == nil {
		ch.CreatedAt = s.stamp()
	}
	td.checks[ch.ClientID] = append(td.checks[ch.ClientID], ch)
	return ch, nil
}

func (s *Store) ListPayments(_ context.Context, tenantID, clientID string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return []models.Payment{}, nil
	}
	return append([]models.Payment{}, td.payments[clientID]...), nil
}

func (s *Store) CreatePayment(_ context.Context, tenantID string, p models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(tenantID)
	if _, ok := td.clients[p.ClientID]; !ok {
		return models.Payment{}, repository.ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	td.payments[p.ClientID] = append(td.payments[p.ClientID], p)
	return p, nil
}

func (s *Store) ListAnamnesis(_ context.Context, tenantID, clientID string) ([]models.Anamnesis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return []models.Anamnesis{}, nil
	}
	return append([]models.Anamnesis{}, td.anamnesis[clientID]...), nil
}

func (s *Store) CreateAnamnesis(_ context.Context, tenantID string, a models.Anamnesis) (models.Anamnesis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(tenantID)
	if _, ok := td.clients[a.ClientID]; !ok {
		return models.Anamnesis{}, repository.ErrNotFound
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == nil {
		a.CreatedAt = s.stamp()
	}
	td.anamnesis[a.ClientID] = append(td.anamnesis[a.ClientID], a)
	return a, nil
}

// ── Notifications ────────────────────────────────────────────────

func (s *Store) CreateNotification(_ context.Context, tenantID string, n models.Notification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td := s.tenant(tenantID)
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	td.notifications = append(td.notifications, n)
	return n, nil
}

func (s *Store) HasNotificationSince(_ context.Context, tenantID, userID, clientID, nType string, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return false, nil
	}
	for _, n := range td.notifications {
		if n.UserID == userID && n.ClientID == clientID && n.Type == nType && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListNotifications(_ context.Context, tenantID, userID string, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Notification{}
	td, ok := s.tenants[tenantID]
	if !ok {
		return out, nil
	}
	for _, n := range td.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UnreadCount(_ context.Context, tenantID, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return 0, nil
	}
	count := 0
	for _, n := range td.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkRead(_ context.Context, tenantID, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range td.notifications {
		if td.notifications[i].ID == notificationID && td.notifications[i].UserID == userID {
			td.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) MarkAllRead(_ context.Context, tenantID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return 0, nil
	}
	updated := 0
	for i := range td.notifications {
		if td.notifications[i].UserID == userID && !td.notifications[i].Read {
			td.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

// ── Users ────────────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = u

	td := s.tenant(u.TenantID)
	switch u.Role {
	case "superadmin":
		td.roles[tenant.RoleDocSuperadmins] = append(td.roles[tenant.RoleDocSuperadmins], u.ID)
	case "admin":
		td.roles[tenant.RoleDocAdmins] = append(td.roles[tenant.RoleDocAdmins], u.ID)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

// ── Tenants ──────────────────────────────────────────────────────

func (s *Store) ListTenants(_ context.Context) ([]models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tenant, 0, len(s.order))
	for _, id := range s.order {
		td := s.tenants[id]
		t := td.info
		t.AdminIDs = mergeIDs(td.roles[tenant.RoleDocSuperadmins], td.roles[tenant.RoleDocAdmins])
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) RemoveRoleMember(_ context.Context, tenantID, roleDoc, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.tenants[tenantID]
	if !ok {
		return false, repository.ErrNotFound
	}
	uids, ok := td.roles[roleDoc]
	if !ok {
		return false, repository.ErrNotFound
	}
	kept := uids[:0:0]
	for _, id := range uids {
		if id != uid {
			kept = append(kept, id)
		}
	}
	td.roles[roleDoc] = kept
	return len(kept) != len(uids), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// mergeIDs concatenates id lists, dropping duplicates and keeping order.
func mergeIDs(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
