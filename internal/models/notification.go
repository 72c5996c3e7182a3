package models

import "time"

// ── Notification Types ───────────────────────────────────────────

const (
	NotificationExpiryWarning  = "expiry_warning"  // 15 days left
	NotificationExpiryUrgent   = "expiry_urgent"   // 7 days left
	NotificationExpiryCritical = "expiry_critical" // 3 days left
	NotificationExpired        = "expired"         // expired today
	NotificationMissingCheckIn = "missing_checkin"
)

// ── Severities ───────────────────────────────────────────────────

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical" // alert feed only
)

// Notification is an alert addressed to a coach or admin.
type Notification struct {
	ID             string    `json:"id" firestore:"-"`
	UserID         string    `json:"userId" firestore:"userId"`
	Type           string    `json:"type" firestore:"type"`
	Severity       string    `json:"severity" firestore:"severity"`
	Title          string    `json:"title" firestore:"title"`
	Message        string    `json:"message" firestore:"message"`
	ClientID       string    `json:"clientId,omitempty" firestore:"clientId"`
	ClientName     string    `json:"clientName,omitempty" firestore:"clientName"`
	DaysLeft       *int      `json:"daysLeft,omitempty" firestore:"daysLeft,omitempty"`
	DaysOverdue    *int      `json:"daysOverdue,omitempty" firestore:"daysOverdue,omitempty"`
	DaysSinceCheck *int      `json:"daysSinceCheck,omitempty" firestore:"daysSinceCheck,omitempty"`
	ActionURL      string    `json:"actionUrl,omitempty" firestore:"actionUrl"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	Read           bool      `json:"read" firestore:"read"`
}

// DailyRun summarises one execution of the daily notification job.
type DailyRun struct {
	ExpiryNotifications []Notification `json:"expiryNotifications"`
	CheckInReminders    []Notification `json:"checkInReminders"`
	Total               int            `json:"total"`
}
