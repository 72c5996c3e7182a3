package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/models"
)

// ── Checks ───────────────────────────────────────────────────────

// ListChecks handles GET /api/clients/{id}/checks
func (h *ClientHandler) ListChecks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	checks, err := h.store.ListChecks(ctx, ctxkeys.GetTenantID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Client", "fetch checks")
		return
	}
	if checks == nil {
		checks = []models.Check{}
	}
	JSON(w, http.StatusOK, checks)
}

// CreateCheck handles POST /api/clients/{id}/checks
func (h *ClientHandler) CreateCheck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCheckRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	now := h.now()
	check, err := h.store.CreateCheck(ctx, ctxkeys.GetTenantID(ctx), models.Check{
		ClientID:     chi.URLParam(r, "id"),
		CreatedAt:    &now,
		Measurements: req.Measurements,
		Notes:        req.Notes,
		PhotoURLs:    req.PhotoURLs,
	})
	if err != nil {
		storeError(w, err, "Client", "create check")
		return
	}
	JSON(w, http.StatusCreated, check)
}

// ── Payments ─────────────────────────────────────────────────────

// ListPayments handles GET /api/clients/{id}/payments
func (h *ClientHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	payments, err := h.store.ListPayments(ctx, ctxkeys.GetTenantID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Client", "fetch payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	JSON(w, http.StatusOK, payments)
}

// CreatePayment handles POST /api/clients/{id}/payments
func (h *ClientHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	paidAt := h.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	payment, err := h.store.CreatePayment(ctx, ctxkeys.GetTenantID(ctx), models.Payment{
		ClientID: chi.URLParam(r, "id"),
		Amount:   req.Amount,
		Method:   req.Method,
		Note:     req.Note,
		PaidAt:   paidAt,
	})
	if err != nil {
		storeError(w, err, "Client", "record payment")
		return
	}
	JSON(w, http.StatusCreated, payment)
}

// ── Anamnesis ────────────────────────────────────────────────────

// ListAnamnesis handles GET /api/clients/{id}/anamnesis
func (h *ClientHandler) ListAnamnesis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	forms, err := h.store.ListAnamnesis(ctx, ctxkeys.GetTenantID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Client", "fetch anamnesis")
		return
	}
	if forms == nil {
		forms = []models.Anamnesis{}
	}
	JSON(w, http.StatusOK, forms)
}

// CreateAnamnesis handles POST /api/clients/{id}/anamnesis
func (h *ClientHandler) CreateAnamnesis(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnamnesisRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	now := h.now()
	form, err := h.store.CreateAnamnesis(ctx, ctxkeys.GetTenantID(ctx), models.Anamnesis{
		ClientID:  chi.URLParam(r, "id"),
		Answers:   req.Answers,
		CreatedAt: &now,
	})
	if err != nil {
		storeError(w, err, "Client", "save anamnesis")
		return
	}
	JSON(w, http.StatusCreated, form)
}
