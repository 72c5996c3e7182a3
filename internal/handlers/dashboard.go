package handlers

import (
	"net/http"
	"strconv"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/notifier"
)

// DashboardHandler exposes the notifier's stats, alert feed and daily run.
type DashboardHandler struct {
	svc *notifier.Service
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc *notifier.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetStats handles GET /api/dashboard/stats
// Recomputed on every request; storage failures yield zeroed counters.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	JSON(w, http.StatusOK, h.svc.ClientStats(ctx, ctxkeys.GetTenantID(ctx)))
}

// GetAlerts handles GET /api/dashboard/alerts
func (h *DashboardHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	JSON(w, http.StatusOK, h.svc.AlertFeed(ctx, ctxkeys.GetTenantID(ctx)))
}

// GetExpiring handles GET /api/dashboard/expiring?days=N
func (h *DashboardHandler) GetExpiring(w http.ResponseWriter, r *http.Request) {
	days := notifier.WarningDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			JSONError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	tenantID := ctxkeys.GetTenantID(ctx)
	JSON(w, http.StatusOK, map[string]interface{}{
		"expiring": h.svc.ExpiringClients(ctx, tenantID, days),
		"expired":  h.svc.ExpiredClients(ctx, tenantID),
	})
}

// GetMissingCheckIns handles GET /api/dashboard/missing-checkins
func (h *DashboardHandler) GetMissingCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	JSON(w, http.StatusOK, h.svc.ClientsMissingCheckIn(ctx, ctxkeys.GetTenantID(ctx), notifier.CheckGapDays))
}

// RunDaily handles POST /api/dashboard/run-daily (admin only).
// Notifications are addressed to the calling admin.
func (h *DashboardHandler) RunDaily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	JSON(w, http.StatusOK, h.svc.RunDaily(ctx, ctxkeys.GetTenantID(ctx), ctxkeys.GetUserID(ctx)))
}
