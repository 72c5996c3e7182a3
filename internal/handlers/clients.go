package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"coaching-backend/internal/clientview"
	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/expiry"
	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

// decorateConcurrency bounds the per-client payment and anamnesis reads
// made while building the list.
const decorateConcurrency = 10

// ClientHandler serves clients and their checks, payments and anamnesis.
type ClientHandler struct {
	store repository.ClientStore
	now   func() time.Time
}

// NewClientHandler creates a ClientHandler.
func NewClientHandler(store repository.ClientStore, now func() time.Time) *ClientHandler {
	if now == nil {
		now = time.Now
	}
	return &ClientHandler{store: store, now: now}
}

// ── List ─────────────────────────────────────────────────────────

// List handles GET /api/clients
// Query params: archived, search, filter, sort, order (asc|desc), page.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	tenantID := ctxkeys.GetTenantID(ctx)
	clients, err := h.store.ListClients(ctx, tenantID)
	if err != nil {
		storeError(w, err, "Client", "fetch clients")
		return
	}

	now := h.now()
	rows, err := h.decorate(ctx, tenantID, clients, now)
	if err != nil {
		storeError(w, err, "Client", "fetch clients")
		return
	}

	JSON(w, http.StatusOK, clientview.Build(clients, rows, parseQuery(r), now))
}

// Calendar handles GET /api/clients/calendar?month=YYYY-MM&type=&filter=
func (h *ClientHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	now := h.now()
	month, err := clientview.ParseMonth(r.URL.Query().Get("month"), now)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	tenantID := ctxkeys.GetTenantID(ctx)
	clients, err := h.store.ListClients(ctx, tenantID)
	if err != nil {
		storeError(w, err, "Client", "fetch calendar")
		return
	}
	rows, err := h.decorate(ctx, tenantID, clients, now)
	if err != nil {
		storeError(w, err, "Client", "fetch calendar")
		return
	}

	// Archived clients never show on the calendar.
	active := rows[:0]
	for _, row := range rows {
		if !row.IsArchived {
			active = append(active, row)
		}
	}

	q := r.URL.Query()
	JSON(w, http.StatusOK, map[string]interface{}{
		"month": month.Format("2006-01"),
		"days":  clientview.Calendar(active, month, q.Get("type"), q.Get("filter")),
	})
}

// decorate loads payment totals and anamnesis flags with bounded fan-out.
func (h *ClientHandler) decorate(ctx context.Context, tenantID string, clients []models.Client, now time.Time) ([]models.ClientRow, error) {
	var mu sync.Mutex
	totals := make(map[string]float64, len(clients))
	anamnesis := make(map[string]bool, len(clients))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(decorateConcurrency)
	for _, c := range clients {
		g.Go(func() error {
			payments, err := h.store.ListPayments(ctx, tenantID, c.ID)
			if err != nil {
				return err
			}
			forms, err := h.store.ListAnamnesis(ctx, tenantID, c.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			totals[c.ID] = clientview.PaymentsTotal(c, payments)
			anamnesis[c.ID] = len(forms) > 0
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clientview.Decorate(clients, totals, anamnesis, now), nil
}

func parseQuery(r *http.Request) clientview.Query {
	q := clientview.DefaultQuery()
	params := r.URL.Query()

	q.Archived = params.Get("archived") == "true"
	q.Search = params.Get("search")
	if f := params.Get("filter"); f != "" {
		q.Filter = f
	}
	if s := params.Get("sort"); s != "" {
		q.SortField = s
	}
	switch params.Get("order") {
	case "asc":
		q.SortDesc = false
	case "desc":
		q.SortDesc = true
	}
	if p, err := strconv.Atoi(params.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

// ── CRUD ─────────────────────────────────────────────────────────

// GetByID handles GET /api/clients/{id}
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.store.GetClient(ctx, ctxkeys.GetTenantID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Client", "fetch client")
		return
	}

	days := expiry.DaysUntil(c.ExpiresAt, h.now())
	JSON(w, http.StatusOK, models.ClientRow{
		Client:       c,
		DaysToExpiry: days,
		ExpiryColor:  expiry.Color(days),
	})
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.store.CreateClient(ctx, ctxkeys.GetTenantID(ctx), models.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		StartDate: req.StartDate,
		ExpiresAt: req.ExpiresAt,
		Rates:     req.Rates,
	})
	if err != nil {
		storeError(w, err, "Client", "create client")
		return
	}
	JSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateClientRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	h.modify(w, r, "update client", func(c *models.Client) { req.Apply(c) })
}

// Archive handles PATCH /api/clients/{id}/archive
func (h *ClientHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req models.ArchiveClientRequest
	if !decode(w, r, &req) {
		return
	}

	h.modify(w, r, "archive client", func(c *models.Client) { c.IsArchived = req.Archived })
}

// Renew handles POST /api/clients/{id}/renew
// Extends the expiry by whole months starting from max(now, current expiry).
func (h *ClientHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req models.RenewClientRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Months < 1 || req.Months > 24 {
		validationFailed(w, map[string]string{"months": "Months must be between 1 and 24"})
		return
	}

	now := h.now()
	h.modify(w, r, "renew client", func(c *models.Client) {
		next := expiry.ExtendFrom(c.ExpiresAt, req.Months, now)
		c.ExpiresAt = &next
		c.IsArchived = false
	})
}

// modify loads the client named in the URL, applies change and saves it.
func (h *ClientHandler) modify(w http.ResponseWriter, r *http.Request, action string, change func(*models.Client)) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	tenantID := ctxkeys.GetTenantID(ctx)
	c, err := h.store.GetClient(ctx, tenantID, chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Client", action)
		return
	}

	change(&c)

	updated, err := h.store.UpdateClient(ctx, tenantID, c)
	if err != nil {
		storeError(w, err, "Client", action)
		return
	}
	JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/clients/{id}
// Checks, payments and anamnesis are removed with the client.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	if err := h.store.DeleteClient(ctx, ctxkeys.GetTenantID(ctx), chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "Client", "delete client")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Client deleted successfully"})
}
