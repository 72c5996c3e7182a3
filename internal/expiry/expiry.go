// Package expiry provides the pure day arithmetic shared by the notifier,
// the client list/calendar views and the digest email. These functions have
// ZERO dependencies on HTTP, storage or any other infrastructure; the current
// time is always injected.
package expiry

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// ── Expiry Colours ───────────────────────────────────────────────
// Used by list and card rows to colour the days-to-expiry badge.

const (
	ColorNone  = "none"  // No expiry set
	ColorRed   = "red"   // Already expired
	ColorAmber = "amber" // Expires within AmberWindowDays
	ColorGreen = "green" // Comfortably valid
)

// AmberWindowDays is the inclusive upper bound for the amber colour.
const AmberWindowDays = 7

// ── Day Computation ──────────────────────────────────────────────

// DaysUntil returns ceil((expiry - now) / 24h).
// Positive = days left, negative = days overdue, nil = no expiry set.
// No timezone normalisation happens: a subscription ending in 23.5 hours
// reports 1 day left, one that ended 2 hours ago reports 0.
func DaysUntil(expiryDate *time.Time, now time.Time) *int {
	if expiryDate == nil || expiryDate.IsZero() {
		return nil
	}
	days := ceilDays(expiryDate.Sub(now))
	return &days
}

// DaysSince returns floor((now - t) / 24h).
func DaysSince(t, now time.Time) int {
	return int(math.Floor(float64(now.Sub(t)) / float64(day)))
}

// IsExpired reports whether the expiry instant lies strictly before now.
// A nil expiry never expires.
func IsExpired(expiryDate *time.Time, now time.Time) bool {
	if expiryDate == nil || expiryDate.IsZero() {
		return false
	}
	return expiryDate.Before(now)
}

// DaysOverdue returns |DaysUntil| for an expired date.
func DaysOverdue(expiryDate time.Time, now time.Time) int {
	days := ceilDays(expiryDate.Sub(now))
	if days < 0 {
		return -days
	}
	return days
}

// InWindow reports whether 0 < days <= threshold.
func InWindow(days *int, threshold int) bool {
	return days != nil && *days > 0 && *days <= threshold
}

// Color maps a days-to-expiry value to its badge colour.
func Color(days *int) string {
	switch {
	case days == nil:
		return ColorNone
	case *days < 0:
		return ColorRed
	case *days <= AmberWindowDays:
		return ColorAmber
	default:
		return ColorGreen
	}
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay strips the time component, keeping only the date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExtendFrom returns the new expiry after renewing for the given number of
// months. Renewal starts from the current expiry when it is still in the
// future, otherwise from now.
func ExtendFrom(current *time.Time, months int, now time.Time) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, months, 0)
}

// ── Internal Helpers ─────────────────────────────────────────────

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
