package clientview

import (
	"sort"
	"time"

	"coaching-backend/internal/expiry"
	"coaching-backend/internal/models"
)

// Calendar buckets rows by day within the month containing month.
//
// With the expiring or expired status filter, rows are placed on their expiry
// date and must also fall in that band. Otherwise calendarType picks the
// date: expiries for CalendarExpiries, enrolment (createdAt, falling back to
// startDate) for anything else. Rows without the relevant date are skipped.
func Calendar(rows []models.ClientRow, month time.Time, calendarType, status string) []models.CalendarDay {
	status = NormalizeFilter(status)
	loc := month.Location()
	year, mon, _ := month.Date()

	buckets := map[string][]models.ClientRow{}
	for _, r := range rows {
		date := calendarDate(r, calendarType, status)
		if date == nil {
			continue
		}
		d := date.In(loc)
		if y, m, _ := d.Date(); y != year || m != mon {
			continue
		}
		key := d.Format("2006-01-02")
		buckets[key] = append(buckets[key], r)
	}

	days := make([]models.CalendarDay, 0, len(buckets))
	for key, clients := range buckets {
		days = append(days, models.CalendarDay{Date: key, Clients: clients})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func calendarDate(r models.ClientRow, calendarType, status string) *time.Time {
	switch {
	case status == FilterExpiring:
		if !expiry.InWindow(r.DaysToExpiry, ExpiringWindowDays) {
			return nil
		}
		return r.ExpiresAt
	case status == FilterExpired:
		if r.DaysToExpiry == nil || *r.DaysToExpiry >= 0 {
			return nil
		}
		return r.ExpiresAt
	case calendarType == CalendarExpiries:
		return r.ExpiresAt
	case r.CreatedAt != nil:
		return r.CreatedAt
	default:
		return r.StartDate
	}
}

// ParseMonth parses YYYY-MM in now's location. An empty string means the
// month containing now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, _ := now.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation("2006-01", s, now.Location())
}
