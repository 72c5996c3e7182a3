package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// NotificationHandler serves the caller's stored notifications.
type NotificationHandler struct {
	store repository.NotificationStore
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(store repository.NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// List handles GET /api/notifications?limit=N (newest first).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxNotificationLimit)
		}
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	list, err := h.store.ListNotifications(ctx, ctxkeys.GetTenantID(ctx), ctxkeys.GetUserID(ctx), limit)
	if err != nil {
		storeError(w, err, "Notification", "fetch notifications")
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	JSON(w, http.StatusOK, list)
}

// UnreadCount handles GET /api/notifications/count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	count, err := h.store.UnreadCount(ctx, ctxkeys.GetTenantID(ctx), ctxkeys.GetUserID(ctx))
	if err != nil {
		storeError(w, err, "Notification", "count notifications")
		return
	}
	JSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	err := h.store.MarkRead(ctx, ctxkeys.GetTenantID(ctx), ctxkeys.GetUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Notification", "update notification")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllRead handles PATCH /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	updated, err := h.store.MarkAllRead(ctx, ctxkeys.GetTenantID(ctx), ctxkeys.GetUserID(ctx))
	if err != nil {
		storeError(w, err, "Notification", "update notifications")
		return
	}
	JSON(w, http.StatusOK, map[string]int{"updated": updated})
}
