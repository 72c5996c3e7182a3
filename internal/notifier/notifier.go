// Package notifier classifies clients by subscription expiry and check-in
// recency, aggregates dashboard statistics and produces notification records.
//
// Every read goes through a repository.ClientRepository and every clock read
// through the injected now func, so the package is fully testable against the
// memory backend. Storage failures never propagate: they are logged with the
// "[notifier]" prefix and only the affected query returns an empty result.
package notifier

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"coaching-backend/internal/expiry"
	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

// Thresholds used by the generators, the stats and the alert feed.
const (
	WarningDays   = 15
	UrgentDays    = 7
	CriticalDays  = 3
	CheckGapDays  = 7
	MaxCheckAlert = 5

	defaultScanLimit = 8
)

// Service is the notification engine for one deployment. It is safe for
// concurrent use; all per-tenant state lives in the repository.
type Service struct {
	clients   repository.ClientRepository
	store     repository.NotificationStore
	now       func() time.Time
	scanLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithScanLimit bounds how many clients have their checks read concurrently.
func WithScanLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scanLimit = n
		}
	}
}

// New builds a Service. store may be nil, in which case notifications are
// built and returned but never persisted.
func New(clients repository.ClientRepository, store repository.NotificationStore, opts ...Option) *Service {
	s := &Service{
		clients:   clients,
		store:     store,
		now:       time.Now,
		scanLimit: defaultScanLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ── Classifier ───────────────────────────────────────────────────

// ExpiringClients returns clients whose subscription ends within threshold
// days: 0 < daysLeft <= threshold. Clients without an expiry are skipped.
func (s *Service) ExpiringClients(ctx context.Context, tenantID string, threshold int) []models.ExpiringClient {
	out, err := s.expiring(ctx, tenantID, threshold)
	if err != nil {
		log.Printf("[notifier] expiring clients (tenant=%s, threshold=%d): %v", tenantID, threshold, err)
		return []models.ExpiringClient{}
	}
	return out
}

func (s *Service) expiring(ctx context.Context, tenantID string, threshold int) ([]models.ExpiringClient, error) {
	clients, err := s.clients.ListClients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	now := s.now()
	out := []models.ExpiringClient{}
	for _, c := range clients {
		days := expiry.DaysUntil(c.ExpiresAt, now)
		if !expiry.InWindow(days, threshold) {
			continue
		}
		out = append(out, models.ExpiringClient{
			Client:     c,
			ExpiryDate: *c.ExpiresAt,
			DaysLeft:   *days,
		})
	}
	return out, nil
}

// ExpiredClients returns clients whose expiry lies strictly before now.
// DaysOverdue is 0 for a subscription that ended less than a day ago.
func (s *Service) ExpiredClients(ctx context.Context, tenantID string) []models.ExpiredClient {
	out, err := s.expired(ctx, tenantID)
	if err != nil {
		log.Printf("[notifier] expired clients (tenant=%s): %v", tenantID, err)
		return []models.ExpiredClient{}
	}
	return out
}

func (s *Service) expired(ctx context.Context, tenantID string) ([]models.ExpiredClient, error) {
	clients, err := s.clients.ListClients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	now := s.now()
	out := []models.ExpiredClient{}
	for _, c := range clients {
		if !expiry.IsExpired(c.ExpiresAt, now) {
			continue
		}
		out = append(out, models.ExpiredClient{
			Client:      c,
			ExpiryDate:  *c.ExpiresAt,
			DaysOverdue: expiry.DaysOverdue(*c.ExpiresAt, now),
		})
	}
	return out, nil
}

// ── Check-in Gap Detector ────────────────────────────────────────

// ClientsMissingCheckIn returns non-expired clients that never checked in or
// whose latest dated check is older than threshold calendar days. Clients
// with checks but no dated check are not flagged. Order follows the client
// list.
func (s *Service) ClientsMissingCheckIn(ctx context.Context, tenantID string, threshold int) []models.MissingCheckInClient {
	out, err := s.missingCheckIn(ctx, tenantID, threshold)
	if err != nil {
		log.Printf("[notifier] missing check-in scan (tenant=%s, threshold=%d): %v", tenantID, threshold, err)
		return []models.MissingCheckInClient{}
	}
	return out
}

func (s *Service) missingCheckIn(ctx context.Context, tenantID string, threshold int) ([]models.MissingCheckInClient, error) {
	clients, err := s.clients.ListClients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -threshold)

	// One slot per client keeps the output in list order.
	slots := make([]*models.MissingCheckInClient, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.scanLimit)
	for i, c := range clients {
		if expiry.IsExpired(c.ExpiresAt, now) {
			continue
		}
		g.Go(func() error {
			checks, err := s.clients.ListChecks(gctx, tenantID, c.ID)
			if err != nil {
				return fmt.Errorf("list checks for %s: %w", c.ID, err)
			}
			slots[i] = classifyCheckGap(c, checks, cutoff, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []models.MissingCheckInClient{}
	for _, m := range slots {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// classifyCheckGap returns nil when the client is up to date.
func classifyCheckGap(c models.Client, checks []models.Check, cutoff, now time.Time) *models.MissingCheckInClient {
	if len(checks) == 0 {
		return &models.MissingCheckInClient{Client: c}
	}

	var last *time.Time
	for _, ch := range checks {
		if ch.CreatedAt == nil || ch.CreatedAt.IsZero() {
			continue
		}
		if last == nil || ch.CreatedAt.After(*last) {
			t := *ch.CreatedAt
			last = &t
		}
	}
	if last == nil || !last.Before(cutoff) {
		return nil
	}

	days := expiry.DaysSince(*last, now)
	return &models.MissingCheckInClient{
		Client:         c,
		LastCheckDate:  last,
		DaysSinceCheck: &days,
	}
}

// ── Aggregator ───────────────────────────────────────────────────

// ClientStats computes the dashboard badges from five concurrent queries.
// The bands are disjoint; NeedsAttention adds the three-day, expired and
// missing check-in counts without de-duplicating clients that appear in
// more than one list. Each query degrades on its own: a failed check scan
// zeroes MissingCheckIn and leaves the expiry counts intact.
func (s *Service) ClientStats(ctx context.Context, tenantID string) models.ClientStats {
	var (
		exp15, exp7, exp3 []models.ExpiringClient
		expired           []models.ExpiredClient
		missing           []models.MissingCheckInClient
	)

	parallel(
		func() { exp15 = s.ExpiringClients(ctx, tenantID, WarningDays) },
		func() { exp7 = s.ExpiringClients(ctx, tenantID, UrgentDays) },
		func() { exp3 = s.ExpiringClients(ctx, tenantID, CriticalDays) },
		func() { expired = s.ExpiredClients(ctx, tenantID) },
		func() { missing = s.ClientsMissingCheckIn(ctx, tenantID, CheckGapDays) },
	)

	return models.ClientStats{
		Expiring: models.ExpiringBands{
			Days15: countBand(exp15, UrgentDays, WarningDays),
			Days7:  countBand(exp7, CriticalDays, UrgentDays),
			Days3:  countBand(exp3, 0, CriticalDays),
			Total:  len(exp15),
		},
		Expired:        len(expired),
		MissingCheckIn: len(missing),
		NeedsAttention: len(exp3) + len(expired) + len(missing),
	}
}

// countBand counts clients with lo < daysLeft <= hi.
func countBand(clients []models.ExpiringClient, lo, hi int) int {
	n := 0
	for _, c := range clients {
		if c.DaysLeft > lo && c.DaysLeft <= hi {
			n++
		}
	}
	return n
}

// parallel runs fns concurrently and waits for all of them.
func parallel(fns ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for _, fn := range fns {
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	wg.Wait()
}
