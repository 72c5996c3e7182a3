package models

import "time"

// ── Classifier Results ───────────────────────────────────────────

// ExpiringClient is a client whose subscription ends within a threshold.
type ExpiringClient struct {
	Client
	ExpiryDate time.Time `json:"expiryDate"`
	DaysLeft   int       `json:"daysLeft"`
}

// ExpiredClient is a client whose subscription has already ended.
type ExpiredClient struct {
	Client
	ExpiryDate  time.Time `json:"expiryDate"`
	DaysOverdue int       `json:"daysOverdue"`
}

// MissingCheckInClient is an active client without a recent check-in.
// LastCheckDate and DaysSinceCheck are nil when no check was ever recorded.
type MissingCheckInClient struct {
	Client
	LastCheckDate  *time.Time `json:"lastCheckDate"`
	DaysSinceCheck *int       `json:"daysSinceCheck"`
}

// ── Dashboard Stats ──────────────────────────────────────────────

// ExpiringBands holds disjoint expiry bands.
type ExpiringBands struct {
	Days15 int `json:"days15"` // 7 < daysLeft <= 15
	Days7  int `json:"days7"`  // 3 < daysLeft <= 7
	Days3  int `json:"days3"`  // 0 < daysLeft <= 3
	Total  int `json:"total"`  // 0 < daysLeft <= 15
}

// ClientStats drives the dashboard badges. Recomputed on every request.
type ClientStats struct {
	Expiring       ExpiringBands `json:"expiring"`
	Expired        int           `json:"expired"`
	MissingCheckIn int           `json:"missingCheckIn"`
	NeedsAttention int           `json:"needsAttention"`
}

// ── Notification Centre ──────────────────────────────────────────

// Alert types shown in the notification centre.
const (
	AlertExpiry  = "expiry"
	AlertExpired = "expired"
	AlertCheck   = "check"
)

// Alert is one row of the notification centre dropdown.
type Alert struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	ClientID       string `json:"clientId,omitempty"`
	ActionURL      string `json:"actionUrl,omitempty"`
	DaysLeft       *int   `json:"daysLeft,omitempty"`
	DaysOverdue    *int   `json:"daysOverdue,omitempty"`
	DaysSinceCheck *int   `json:"daysSinceCheck,omitempty"`
}

// Badge tones for the bell icon.
const (
	BadgeHidden   = "hidden"
	BadgeWarning  = "warning"  // amber
	BadgeCritical = "critical" // red, pulsing
)

// Badge describes how the bell icon is drawn.
type Badge struct {
	Tone  string `json:"tone"`
	Pulse bool   `json:"pulse"`
	Count int    `json:"count"`
}

// AlertFeed is the full notification centre payload.
type AlertFeed struct {
	Stats      ClientStats `json:"stats"`
	Alerts     []Alert     `json:"alerts"`
	Badge      Badge       `json:"badge"`
	ClientsURL string      `json:"clientsUrl"`
}
