package postgres

import (
	"context"
	"fmt"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

// ── Columns ────────────────────────────────────────────────────

const clientCols = `id, name, email, phone, start_date, scadenza, is_archived, rates, created_at, updated_at`

const checkCols = `id, client_id, created_at, measurements, notes, photo_urls`

const paymentCols = `id, client_id, amount::float8, method, note, paid_at`

const anamnesisCols = `id, client_id, answers, created_at`

// ── Scan Helpers ───────────────────────────────────────────────

func scanClient(row scanner, c *models.Client) error {
	var rates []byte
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.StartDate, &c.ExpiresAt, &c.IsArchived, &rates,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return err
	}
	return fromJSONB(rates, &c.Rates)
}

func scanCheck(row scanner, ch *models.Check) error {
	var measurements []byte
	if err := row.Scan(&ch.ID, &ch.ClientID, &ch.CreatedAt, &measurements, &ch.Notes, &ch.PhotoURLs); err != nil {
		return err
	}
	return fromJSONB(measurements, &ch.Measurements)
}

func scanAnamnesis(row scanner, a *models.Anamnesis) error {
	var answers []byte
	if err := row.Scan(&a.ID, &a.ClientID, &answers, &a.CreatedAt); err != nil {
		return err
	}
	return fromJSONB(answers, &a.Answers)
}

// ── Clients ────────────────────────────────────────────────────

func (s *Store) ListClients(ctx context.Context, tenantID string) ([]models.Client, error) {
	rows, err := s.db.GetPool().Query(ctx,
		`SELECT `+clientCols+` FROM clients WHERE tenant_id = $1 ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, tenantID, clientID string) (models.Client, error) {
	var c models.Client
	err := scanClient(s.db.GetPool().QueryRow(ctx,
		`SELECT `+clientCols+` FROM clients WHERE tenant_id = $1 AND id = $2`, tenantID, clientID), &c)
	if err != nil {
		return models.Client{}, notFound(err)
	}
	return c, nil
}

func (s *Store) CreateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error) {
	rates, err := toJSONB(ratesOrEmpty(c.Rates))
	if err != nil {
		return models.Client{}, err
	}

	var out models.Client
	err = scanClient(s.db.GetPool().QueryRow(ctx, `
		INSERT INTO clients (tenant_id, name, email, phone, start_date, scadenza, is_archived, rates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()), COALESCE($9, NOW()))
		RETURNING `+clientCols,
		tenantID, c.Name, c.Email, c.Phone, c.StartDate, c.ExpiresAt, c.IsArchived, rates, c.CreatedAt,
	), &out)
	if err != nil {
		return models.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error) {
	rates, err := toJSONB(ratesOrEmpty(c.Rates))
	if err != nil {
		return models.Client{}, err
	}

	var out models.Client
	err = scanClient(s.db.GetPool().QueryRow(ctx, `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, start_date = $6, scadenza = $7,
		    is_archived = $8, rates = $9, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+clientCols,
		tenantID, c.ID, c.Name, c.Email, c.Phone, c.StartDate, c.ExpiresAt, c.IsArchived, rates,
	), &out)
	if err != nil {
		return models.Client{}, notFound(err)
	}
	return out, nil
}

func (s *Store) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	tag, err := s.db.GetPool().Exec(ctx, `DELETE FROM clients WHERE tenant_id = $1 AND id = $2`, tenantID, clientID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func ratesOrEmpty(r []models.Installment) []models.Installment {
	if r == nil {
		return []models.Installment{}
	}
	return r
}

// ── Checks ─────────────────────────────────────────────────────

func (s *Store) ListChecks(ctx context.Context, tenantID, clientID string) ([]models.Check, error) {
	rows, err := s.db.GetPool().Query(ctx,
		`SELECT `+checkCols+` FROM checks WHERE tenant_id = $1 AND client_id = $2 ORDER BY created_at DESC`,
		tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	checks := []models.Check{}
	for rows.Next() {
		var ch models.Check
		if err := scanCheck(rows, &ch); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, ch)
	}
	return checks, rows.Err()
}

// CreateCheck inserts only when the client belongs to the tenant.
func (s *Store) CreateCheck(ctx context.Context, tenantID string, ch models.Check) (models.Check, error) {
	measurements, err := toJSONB(ch.Measurements)
	if err != nil {
		return models.Check{}, err
	}
	photos := ch.PhotoURLs
	if photos == nil {
		photos = []string{}
	}

	var out models.Check
	err = scanCheck(s.db.GetPool().QueryRow(ctx, `
		INSERT INTO checks (tenant_id, client_id, created_at, measurements, notes, photo_urls)
		SELECT $1, c.id, COALESCE($3, NOW()), $4, $5, $6
		FROM clients c WHERE c.tenant_id = $1 AND c.id = $2
		RETURNING `+checkCols,
		tenantID, ch.ClientID, ch.CreatedAt, measurements, ch.Notes, photos,
	), &out)
	if err != nil {
		return models.Check{}, notFound(err)
	}
	return out, nil
}

// ── Payments ───────────────────────────────────────────────────

func (s *Store) ListPayments(ctx context.Context, tenantID, clientID string) ([]models.Payment, error) {
	rows, err := s.db.GetPool().Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE tenant_id = $1 AND client_id = $2 ORDER BY paid_at DESC`,
		tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Amount, &p.Method, &p.Note, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) CreatePayment(ctx context.Context, tenantID string, p models.Payment) (models.Payment, error) {
	var paidAt any
	if !p.PaidAt.IsZero() {
		paidAt = p.PaidAt
	}

	var out models.Payment
	err := s.db.GetPool().QueryRow(ctx, `
		INSERT INTO payments (tenant_id, client_id, amount, method, note, paid_at)
		SELECT $1, c.id, $3, $4, $5, COALESCE($6::timestamptz, NOW())
		FROM clients c WHERE c.tenant_id = $1 AND c.id = $2
		RETURNING `+paymentCols,
		tenantID, p.ClientID, p.Amount, p.Method, p.Note, paidAt,
	).Scan(&out.ID, &out.ClientID, &out.Amount, &out.Method, &out.Note, &out.PaidAt)
	if err != nil {
		return models.Payment{}, notFound(err)
	}
	return out, nil
}

// ── Anamnesis ──────────────────────────────────────────────────

func (s *Store) ListAnamnesis(ctx context.Context, tenantID, clientID string) ([]models.Anamnesis, error) {
	rows, err := s.db.GetPool().Query(ctx,
		`SELECT `+anamnesisCols+` FROM anamnesis WHERE tenant_id = $1 AND client_id = $2 ORDER BY created_at DESC`,
		tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("query anamnesis: %w", err)
	}
	defer rows.Close()

	out := []models.Anamnesis{}
	for rows.Next() {
		var a models.Anamnesis
		if err := scanAnamnesis(rows, &a); err != nil {
			return nil, fmt.Errorf("scan anamnesis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateAnamnesis(ctx context.Context, tenantID string, a models.Anamnesis) (models.Anamnesis, error) {
	answers, err := toJSONB(a.Answers)
	if err != nil {
		return models.Anamnesis{}, err
	}

	var out models.Anamnesis
	err = scanAnamnesis(s.db.GetPool().QueryRow(ctx, `
		INSERT INTO anamnesis (tenant_id, client_id, answers, created_at)
		SELECT $1, c.id, $3, COALESCE($4, NOW())
		FROM clients c WHERE c.tenant_id = $1 AND c.id = $2
		RETURNING `+anamnesisCols,
		tenantID, a.ClientID, answers, a.CreatedAt,
	), &out)
	if err != nil {
		return models.Anamnesis{}, notFound(err)
	}
	return out, nil
}
