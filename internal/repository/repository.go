// Package repository defines the storage contracts used by handlers, the
// notifier and the maintenance CLI. Every method is tenant-scoped; backends
// live in the postgres, firestore and memory subpackages.
package repository

import (
	"context"
	"errors"
	"time"

	"coaching-backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique field (e.g. user email) is taken.
var ErrDuplicate = errors.New("already exists")

// ClientRepository is the read side the notifier needs.
type ClientRepository interface {
	ListClients(ctx context.Context, tenantID string) ([]models.Client, error)
	ListChecks(ctx context.Context, tenantID, clientID string) ([]models.Check, error)
}

// ClientStore is the full client CRUD surface used by the HTTP handlers.
type ClientStore interface {
	ClientRepository

	GetClient(ctx context.Context, tenantID, clientID string) (models.Client, error)
	CreateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error)
	UpdateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error)
	DeleteClient(ctx context.Context, tenantID, clientID string) error

	CreateCheck(ctx context.Context, tenantID string, ch models.Check) (models.Check, error)

	ListPayments(ctx context.Context, tenantID, clientID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, tenantID string, p models.Payment) (models.Payment, error)

	ListAnamnesis(ctx context.Context, tenantID, clientID string) ([]models.Anamnesis, error)
	CreateAnamnesis(ctx context.Context, tenantID string, a models.Anamnesis) (models.Anamnesis, error)
}

// NotificationStore persists notification records.
type NotificationStore interface {
	CreateNotification(ctx context.Context, tenantID string, n models.Notification) (models.Notification, error)
	// HasNotificationSince reports whether a notification of the same type
	// for the same user and client was stored at or after since.
	HasNotificationSince(ctx context.Context, tenantID, userID, clientID, nType string, since time.Time) (bool, error)
	ListNotifications(ctx context.Context, tenantID, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, tenantID, userID string) (int, error)
	MarkRead(ctx context.Context, tenantID, userID, notificationID string) error
	MarkAllRead(ctx context.Context, tenantID, userID string) (int, error)
}

// UserStore manages local panel accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// TenantDirectory lists tenants and edits their role documents.
type TenantDirectory interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	// RemoveRoleMember drops uid from the named role document and reports
	// whether it was present.
	RemoveRoleMember(ctx context.Context, tenantID, roleDoc, uid string) (bool, error)
}

// Backend bundles every store a deployment provides.
type Backend interface {
	ClientStore
	NotificationStore
	UserStore
	TenantDirectory
	Close() error
}
