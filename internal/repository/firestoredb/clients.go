package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"coaching-backend/internal/models"
	"coaching-backend/internal/tenant"
)

// ── Decoders ───────────────────────────────────────────────────

func decodeClient(snap *firestore.DocumentSnapshot) (models.Client, error) {
	var c models.Client
	if err := snap.DataTo(&c); err != nil {
		return c, err
	}
	c.ID = snap.Ref.ID
	return c, nil
}

func decodeCheck(snap *firestore.DocumentSnapshot) (models.Check, error) {
	var ch models.Check
	if err := snap.DataTo(&ch); err != nil {
		return ch, err
	}
	ch.ID = snap.Ref.ID
	if ch.ClientID == "" {
		ch.ClientID = snap.Ref.Parent.Parent.ID
	}
	return ch, nil
}

func decodePayment(snap *firestore.DocumentSnapshot) (models.Payment, error) {
	var p models.Payment
	if err := snap.DataTo(&p); err != nil {
		return p, err
	}
	p.ID = snap.Ref.ID
	if p.ClientID == "" {
		p.ClientID = snap.Ref.Parent.Parent.ID
	}
	return p, nil
}

func decodeAnamnesis(snap *firestore.DocumentSnapshot) (models.Anamnesis, error) {
	var a models.Anamnesis
	if err := snap.DataTo(&a); err != nil {
		return a, err
	}
	a.ID = snap.Ref.ID
	if a.ClientID == "" {
		a.ClientID = snap.Ref.Parent.Parent.ID
	}
	return a, nil
}

// ── Clients ────────────────────────────────────────────────────

func (s *Store) ListClients(ctx context.Context, tenantID string) ([]models.Client, error) {
	clients, err := collect(s.collection(tenantID, tenant.Clients).Documents(ctx), decodeClient)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *Store) GetClient(ctx context.Context, tenantID, clientID string) (models.Client, error) {
	snap, err := s.collection(tenantID, tenant.Clients).Doc(clientID).Get(ctx)
	if err != nil {
		return models.Client{}, mapErr("get client", err)
	}
	return decodeClient(snap)
}

func (s *Store) CreateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error) {
	col := s.collection(tenantID, tenant.Clients)
	ref := col.NewDoc()
	if c.ID != "" {
		ref = col.Doc(c.ID)
	}
	if c.CreatedAt == nil {
		c.CreatedAt = s.stamp()
	}
	c.UpdatedAt = c.CreatedAt

	if _, err := ref.Create(ctx, c); err != nil {
		return models.Client{}, fmt.Errorf("create client: %w", err)
	}
	c.ID = ref.ID
	return c, nil
}

func (s *Store) UpdateClient(ctx context.Context, tenantID string, c models.Client) (models.Client, error) {
	ref := s.collection(tenantID, tenant.Clients).Doc(c.ID)
	c.UpdatedAt = s.stamp()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, c)
	})
	if err != nil {
		return models.Client{}, mapErr("update client", err)
	}
	return c, nil
}

// DeleteClient removes the client and the documents of its subcollections.
func (s *Store) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	ref := s.collection(tenantID, tenant.Clients).Doc(clientID)
	if _, err := ref.Get(ctx); err != nil {
		return mapErr("get client", err)
	}

	bw := s.client.BulkWriter(ctx)
	for _, name := range []string{tenant.Checks, tenant.Payments, tenant.Anamnesis} {
		refs, err := ref.Collection(name).DocumentRefs(ctx).GetAll()
		if err != nil {
			bw.End()
			return fmt.Errorf("list %s: %w", name, err)
		}
		for _, r := range refs {
			if _, err := bw.Delete(r); err != nil {
				bw.End()
				return fmt.Errorf("queue delete %s: %w", r.Path, err)
			}
		}
	}
	if _, err := bw.Delete(ref); err != nil {
		bw.End()
		return fmt.Errorf("queue delete client: %w", err)
	}
	bw.End()
	return nil
}

// requireClient fails with ErrNotFound unless the client exists.
func (s *Store) requireClient(ctx context.Context, tenantID, clientID string) error {
	if _, err := s.collection(tenantID, tenant.Clients).Doc(clientID).Get(ctx); err != nil {
		return mapErr("get client", err)
	}
	return nil
}

// ── Subcollections ─────────────────────────────────────────────

func (s *Store) ListChecks(ctx context.Context, tenantID, clientID string) ([]models.Check, error) {
	checks, err := collect(s.sub(tenantID, clientID, tenant.Checks).Documents(ctx), decodeCheck)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}

func (s *Store) CreateCheck(ctx context.Context, tenantID string, ch models.Check) (models.Check, error) {
	if err := s.requireClient(ctx, tenantID, ch.ClientID); err != nil {
		return models.Check{}, err
	}
	if ch.CreatedAt == nil {
		ch.CreatedAt = s.stamp()
	}
	ref, _, err := s.sub(tenantID, ch.ClientID, tenant.Checks).Add(ctx, ch)
	if err != nil {
		return models.Check{}, fmt.Errorf("add check: %w", err)
	}
	ch.ID = ref.ID
	return ch, nil
}

func (s *Store) ListPayments(ctx context.Context, tenantID, clientID string) ([]models.Payment, error) {
	payments, err := collect(s.sub(tenantID, clientID, tenant.Payments).Documents(ctx), decodePayment)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (s *Store) CreatePayment(ctx context.Context, tenantID string, p models.Payment) (models.Payment, error) {
	if err := s.requireClient(ctx, tenantID, p.ClientID); err != nil {
		return models.Payment{}, err
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	ref, _, err := s.sub(tenantID, p.ClientID, tenant.Payments).Add(ctx, p)
	if err != nil {
		return models.Payment{}, fmt.Errorf("add payment: %w", err)
	}
	p.ID = ref.ID
	return p, nil
}

func (s *Store) ListAnamnesis(ctx context.Context, tenantID, clientID string) ([]models.Anamnesis, error) {
	out, err := collect(s.sub(tenantID, clientID, tenant.Anamnesis).Documents(ctx), decodeAnamnesis)
	if err != nil {
		return nil, fmt.Errorf("list anamnesis: %w", err)
	}
	return out, nil
}

func (s *Store) CreateAnamnesis(ctx context.Context, tenantID string, a models.Anamnesis) (models.Anamnesis, error) {
	if err := s.requireClient(ctx, tenantID, a.ClientID); err != nil {
		return models.Anamnesis{}, err
	}
	if a.CreatedAt == nil {
		a.CreatedAt = s.stamp()
	}
	ref, _, err := s.sub(tenantID, a.ClientID, tenant.Anamnesis).Add(ctx, a)
	if err != nil {
		return models.Anamnesis{}, fmt.Errorf("add anamnesis: %w", err)
	}
	a.ID = ref.ID
	return a, nil
}
