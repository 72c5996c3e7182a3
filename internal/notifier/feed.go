package notifier

import (
	"context"
	"fmt"
	"log"

	"coaching-backend/internal/models"
)

// AlertFeed assembles the notification centre payload: stats, the merged
// alert list and the bell badge. A failed query only drops its own alerts.
// Cancelling ctx returns the stats computed so far with no alerts.
func (s *Service) AlertFeed(ctx context.Context, tenantID string) models.AlertFeed {
	feed := models.AlertFeed{
		Alerts:     []models.Alert{},
		ClientsURL: ClientsURL,
	}

	var (
		expiring []models.ExpiringClient
		expired  []models.ExpiredClient
		missing  []models.MissingCheckInClient
	)

	parallel(
		func() { feed.Stats = s.ClientStats(ctx, tenantID) },
		func() { expiring = s.ExpiringClients(ctx, tenantID, CriticalDays) },
		func() { expired = s.ExpiredClients(ctx, tenantID) },
		func() { missing = s.ClientsMissingCheckIn(ctx, tenantID, CheckGapDays) },
	)
	feed.Badge = BadgeFor(feed.Stats)
	if err := ctx.Err(); err != nil {
		log.Printf("[notifier] alert feed (tenant=%s): %v", tenantID, err)
		return feed
	}

	feed.Alerts = buildAlerts(expiring, expired, missing)
	return feed
}

func buildAlerts(expiring []models.ExpiringClient, expired []models.ExpiredClient, missing []models.MissingCheckInClient) []models.Alert {
	alerts := make([]models.Alert, 0, len(expiring)+len(expired)+min(len(missing), MaxCheckAlert))

	for _, c := range expiring {
		severity := models.SeverityWarning
		if c.DaysLeft <= CriticalDays {
			severity = models.SeverityCritical
		}
		days := c.DaysLeft
		alerts = append(alerts, models.Alert{
			ID:        "exp-" + c.ID,
			Type:      models.AlertExpiry,
			Severity:  severity,
			Title:     fmt.Sprintf("Expires in %d days", c.DaysLeft),
			Message:   c.Name,
			ClientID:  c.ID,
			ActionURL: ClientURL(c.ID),
			DaysLeft:  &days,
		})
	}

	for _, c := range expired {
		days := c.DaysOverdue
		alerts = append(alerts, models.Alert{
			ID:          "ovr-" + c.ID,
			Type:        models.AlertExpired,
			Severity:    models.SeverityError,
			Title:       "Expired",
			Message:     c.Name,
			ClientID:    c.ID,
			ActionURL:   ClientURL(c.ID),
			DaysOverdue: &days,
		})
	}

	if len(missing) > MaxCheckAlert {
		missing = missing[:MaxCheckAlert]
	}
	for _, c := range missing {
		since := "?"
		if c.DaysSinceCheck != nil && *c.DaysSinceCheck != 0 {
			since = fmt.Sprint(*c.DaysSinceCheck)
		}
		alerts = append(alerts, models.Alert{
			ID:             "chk-" + c.ID,
			Type:           models.AlertCheck,
			Severity:       models.SeverityInfo,
			Title:          "Missing check-in",
			Message:        fmt.Sprintf("%s - %s days", c.Name, since),
			ClientID:       c.ID,
			ActionURL:      ClientURL(c.ID),
			DaysSinceCheck: c.DaysSinceCheck,
		})
	}

	return alerts
}

// BadgeFor derives the bell badge from the stats.
func BadgeFor(stats models.ClientStats) models.Badge {
	switch {
	case stats.NeedsAttention == 0:
		return models.Badge{Tone: models.BadgeHidden}
	case stats.Expiring.Days3+stats.Expired > 0:
		return models.Badge{Tone: models.BadgeCritical, Pulse: true, Count: stats.NeedsAttention}
	default:
		return models.Badge{Tone: models.BadgeWarning, Count: stats.NeedsAttention}
	}
}
