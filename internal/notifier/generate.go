package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"coaching-backend/internal/expiry"
	"coaching-backend/internal/models"
)

// ── Generators ───────────────────────────────────────────────────

type expiryRule struct {
	days     int
	nType    string
	severity string
	title    string
	message  func(c models.ExpiringClient) string
}

var expiryRules = []expiryRule{
	{
		days: WarningDays, nType: models.NotificationExpiryWarning, severity: models.SeverityInfo,
		title: "Subscription Expiring",
		message: func(c models.ExpiringClient) string {
			return fmt.Sprintf("%s expires in 15 days (%s)", c.Name, c.ExpiryDate.Format("2/1/2006"))
		},
	},
	{
		days: UrgentDays, nType: models.NotificationExpiryUrgent, severity: models.SeverityWarning,
		title: "Expiry Approaching",
		message: func(c models.ExpiringClient) string {
			return fmt.Sprintf("%s expires in 7 days! Get in touch about renewal.", c.Name)
		},
	},
	{
		days: CriticalDays, nType: models.NotificationExpiryCritical, severity: models.SeverityError,
		title: "🚨 Critical Expiry",
		message: func(c models.ExpiringClient) string {
			return fmt.Sprintf("%s expires in 3 days! Urgent action required.", c.Name)
		},
	},
}

// GenerateExpiryNotifications builds one notification per client sitting
// exactly on a 15, 7 or 3 day boundary, plus one per client that expired
// today, and persists each for adminID. Duplicates already stored today are
// left out of the result.
func (s *Service) GenerateExpiryNotifications(ctx context.Context, tenantID, adminID string) []models.Notification {
	var pending []models.Notification

	for _, rule := range expiryRules {
		for _, c := range s.ExpiringClients(ctx, tenantID, rule.days) {
			if c.DaysLeft != rule.days {
				continue
			}
			days := rule.days
			pending = append(pending, models.Notification{
				Type:       rule.nType,
				Severity:   rule.severity,
				Title:      rule.title,
				Message:    rule.message(c),
				ClientID:   c.ID,
				ClientName: c.Name,
				DaysLeft:   &days,
				ActionURL:  ClientURL(c.ID),
			})
		}
	}

	for _, c := range s.ExpiredClients(ctx, tenantID) {
		if c.DaysOverdue != 0 {
			continue
		}
		zero := 0
		pending = append(pending, models.Notification{
			Type:        models.NotificationExpired,
			Severity:    models.SeverityError,
			Title:       "❌ Subscription Expired",
			Message:     fmt.Sprintf("%s expired today. Renew immediately.", c.Name),
			ClientID:    c.ID,
			ClientName:  c.Name,
			DaysOverdue: &zero,
			ActionURL:   ClientURL(c.ID),
		})
	}

	return s.persistAll(ctx, tenantID, adminID, pending)
}

// GenerateCheckInReminders builds one reminder per client missing a check-in
// for CheckGapDays and persists each for adminID.
func (s *Service) GenerateCheckInReminders(ctx context.Context, tenantID, adminID string) []models.Notification {
	var pending []models.Notification

	for _, c := range s.ClientsMissingCheckIn(ctx, tenantID, CheckGapDays) {
		msg := fmt.Sprintf("%s has never checked in", c.Name)
		if c.LastCheckDate != nil {
			msg = fmt.Sprintf("%s has not checked in for %d days", c.Name, *c.DaysSinceCheck)
		}
		pending = append(pending, models.Notification{
			Type:           models.NotificationMissingCheckIn,
			Severity:       models.SeverityInfo,
			Title:          "Missing Check-in",
			Message:        msg,
			ClientID:       c.ID,
			ClientName:     c.Name,
			DaysSinceCheck: c.DaysSinceCheck,
			ActionURL:      ClientChecksURL(c.ID),
		})
	}

	return s.persistAll(ctx, tenantID, adminID, pending)
}

// persistAll stores each notification. A notification whose write failed is
// still reported; one skipped as a same-day duplicate is not.
func (s *Service) persistAll(ctx context.Context, tenantID, adminID string, pending []models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(pending))
	for _, n := range pending {
		stored, dup, err := s.create(ctx, tenantID, adminID, n)
		switch {
		case err != nil:
			log.Printf("[notifier] create %s for client %s: %v", n.Type, n.ClientID, err)
			out = append(out, stored)
		case dup:
			continue
		default:
			out = append(out, stored)
		}
	}
	return out
}

// ── Persistence ──────────────────────────────────────────────────

// CreateNotification stores n for userID, unread, with createdAt stamped by
// the store. It returns nil when the write fails or when a notification of the same
// type for the same client was already stored for userID today.
func (s *Service) CreateNotification(ctx context.Context, tenantID, userID string, n models.Notification) *models.Notification {
	stored, dup, err := s.create(ctx, tenantID, userID, n)
	if err != nil {
		log.Printf("[notifier] create notification: %v", err)
		return nil
	}
	if dup {
		return nil
	}
	return &stored
}

// create leaves CreatedAt for the store to stamp with its own clock.
func (s *Service) create(ctx context.Context, tenantID, userID string, n models.Notification) (models.Notification, bool, error) {
	now := s.now()
	n.UserID = userID
	n.CreatedAt = time.Time{}
	n.Read = false

	if s.store == nil {
		n.CreatedAt = now
		return n, false, nil
	}

	if n.ClientID != "" {
		exists, err := s.store.HasNotificationSince(ctx, tenantID, userID, n.ClientID, n.Type, expiry.StartOfDay(now))
		if err != nil {
			return n, false, fmt.Errorf("check duplicate: %w", err)
		}
		if exists {
			return n, true, nil
		}
	}

	stored, err := s.store.CreateNotification(ctx, tenantID, n)
	if err != nil {
		return n, false, fmt.Errorf("store notification: %w", err)
	}
	return stored, false, nil
}

// ── Daily Run ────────────────────────────────────────────────────

// RunDaily runs both generators concurrently for one admin.
func (s *Service) RunDaily(ctx context.Context, tenantID, adminID string) models.DailyRun {
	var run models.DailyRun

	parallel(
		func() { run.ExpiryNotifications = s.GenerateExpiryNotifications(ctx, tenantID, adminID) },
		func() { run.CheckInReminders = s.GenerateCheckInReminders(ctx, tenantID, adminID) },
	)

	run.Total = len(run.ExpiryNotifications) + len(run.CheckInReminders)
	log.Printf("[notifier] daily run (tenant=%s, admin=%s): %d notifications (%d expiry, %d check-in)",
		tenantID, adminID, run.Total, len(run.ExpiryNotifications), len(run.CheckInReminders))
	return run
}

// ── Routes ───────────────────────────────────────────────────────

// ClientURL is the panel route of a client's detail page.
func ClientURL(clientID string) string { return "/client/" + clientID }

// ClientChecksURL is the panel route of a client's check list.
func ClientChecksURL(clientID string) string { return "/client/" + clientID + "/checks" }

// ClientsURL is the panel route of the client list.
const ClientsURL = "/clients"
