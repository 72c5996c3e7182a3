// Package clientview holds the pure list, card and calendar logic behind the
// client list endpoints: decoration with expiry data, filtering, sorting,
// incremental pagination, summary counters and the monthly calendar.
package clientview

import (
	"sort"
	"strings"
	"time"

	"coaching-backend/internal/expiry"
	"coaching-backend/internal/models"
)

// PageSize is the number of rows revealed per "show more" step.
const PageSize = 20

// ExpiringWindowDays bounds the list's "expiring" filter and counter.
const ExpiringWindowDays = 15

// Status filters.
const (
	FilterAll          = "all"
	FilterActive       = "active"
	FilterExpiring     = "expiring"
	FilterExpired      = "expired"
	FilterNoAnamnesis  = "no-anamnesis"
	FilterHasAnamnesis = "has-anamnesis"
	FilterRecent       = "recent"
)

// Sort fields.
const (
	SortName      = "name"
	SortStartDate = "startDate"
	SortExpiry    = "expiry"
	SortLastCheck = "lastCheck"
	SortRecent    = "recent"
)

// Calendar types.
const (
	CalendarEnrollments = "iscrizioni"
	CalendarExpiries    = "scadenze"
)

// filterAliases maps the panel's legacy filter names.
var filterAliases = map[string]string{
	"no-check":  FilterNoAnamnesis,
	"has-check": FilterHasAnamnesis,
}

// Query describes one client list request.
type Query struct {
	Archived  bool
	Search    string
	Filter    string
	SortField string
	SortDesc  bool
	Page      int
}

// DefaultQuery returns the list's initial state: active clients, newest
// start date first, first page.
func DefaultQuery() Query {
	return Query{Filter: FilterAll, SortField: SortStartDate, SortDesc: true, Page: 1}
}

// ── Decoration ───────────────────────────────────────────────────

// Decorate annotates each client with its days to expiry, badge colour,
// payment total and anamnesis flag. Missing map entries count as zero/false.
func Decorate(clients []models.Client, paymentTotals map[string]float64, anamnesis map[string]bool, now time.Time) []models.ClientRow {
	rows := make([]models.ClientRow, 0, len(clients))
	for _, c := range clients {
		days := expiry.DaysUntil(c.ExpiresAt, now)
		rows = append(rows, models.ClientRow{
			Client:        c,
			DaysToExpiry:  days,
			ExpiryColor:   expiry.Color(days),
			PaymentsTotal: paymentTotals[c.ID],
			HasAnamnesis:  anamnesis[c.ID],
		})
	}
	return rows
}

// PaymentsTotal sums the paid instalments of c plus every recorded payment.
func PaymentsTotal(c models.Client, payments []models.Payment) float64 {
	total := 0.0
	for _, r := range c.Rates {
		if r.Paid {
			total += r.Amount
		}
	}
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// ── Filtering ────────────────────────────────────────────────────

// NormalizeFilter resolves aliases and unknown values to FilterAll.
func NormalizeFilter(f string) string {
	if alias, ok := filterAliases[f]; ok {
		return alias
	}
	switch f {
	case FilterActive, FilterExpiring, FilterExpired, FilterNoAnamnesis, FilterHasAnamnesis, FilterRecent:
		return f
	default:
		return FilterAll
	}
}

// Filter keeps rows matching the archived flag, the search text (name or
// email, case-insensitive) and the status filter.
func Filter(rows []models.ClientRow, q Query, now time.Time) []models.ClientRow {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := NormalizeFilter(q.Filter)

	out := make([]models.ClientRow, 0, len(rows))
	for _, r := range rows {
		if r.IsArchived != q.Archived {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Email), search) {
			continue
		}
		if !matchesStatus(r, status, now) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesStatus(r models.ClientRow, status string, now time.Time) bool {
	switch status {
	case FilterActive:
		return r.ExpiresAt != nil && r.ExpiresAt.After(now)
	case FilterExpiring:
		return expiry.InWindow(r.DaysToExpiry, ExpiringWindowDays)
	case FilterExpired:
		return expiry.IsExpired(r.ExpiresAt, now)
	case FilterNoAnamnesis:
		return !r.HasAnamnesis
	case FilterHasAnamnesis:
		return r.HasAnamnesis
	default:
		return true
	}
}

// ── Sorting ──────────────────────────────────────────────────────

// Sort orders rows in place. Missing dates sort as the Unix epoch; equal
// keys keep their relative order. Unknown fields leave the order untouched.
func Sort(rows []models.ClientRow, field string, desc bool) {
	less := lessFunc(field)
	if less == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessFunc(field string) func(a, b models.ClientRow) bool {
	switch field {
	case SortName:
		return func(a, b models.ClientRow) bool { return a.Name < b.Name }
	case SortStartDate, SortRecent:
		return func(a, b models.ClientRow) bool { return orEpoch(a.StartDate).Before(orEpoch(b.StartDate)) }
	case SortExpiry:
		return func(a, b models.ClientRow) bool { return orEpoch(a.ExpiresAt).Before(orEpoch(b.ExpiresAt)) }
	case SortLastCheck:
		// Rows with an anamnesis on file rank above those without.
		return func(a, b models.ClientRow) bool { return !a.HasAnamnesis && b.HasAnamnesis }
	default:
		return nil
	}
}

func orEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0)
	}
	return *t
}

// ── Pagination ───────────────────────────────────────────────────

// Paginate reveals the first PageSize*page rows. hasMore reports whether
// further rows remain hidden.
func Paginate(rows []models.ClientRow, page int) (visible []models.ClientRow, hasMore bool) {
	if page < 1 {
		page = 1
	}
	end := page * PageSize
	if end >= len(rows) {
		return rows, false
	}
	return rows[:end], true
}

// ── Summary ──────────────────────────────────────────────────────

// Summary counts clients for the list header. A client whose expiry is today
// (daysToExpiry == 0) counts as expiring.
func Summary(clients []models.Client, now time.Time) models.ClientListSummary {
	s := models.ClientListSummary{Total: len(clients)}
	for _, c := range clients {
		days := expiry.DaysUntil(c.ExpiresAt, now)
		switch {
		case days == nil:
		case *days < 0:
			s.Expired++
		case *days <= ExpiringWindowDays:
			s.Expiring++
		}
	}
	return s
}

// ── Page Assembly ────────────────────────────────────────────────

// Build runs filter, sort and pagination over decorated rows and attaches
// the summary of the undecorated client list.
func Build(clients []models.Client, rows []models.ClientRow, q Query, now time.Time) models.ClientPage {
	filtered := Filter(rows, q, now)
	Sort(filtered, q.SortField, q.SortDesc)
	visible, hasMore := Paginate(filtered, q.Page)

	page := q.Page
	if page < 1 {
		page = 1
	}
	return models.ClientPage{
		Data:    visible,
		Total:   len(filtered),
		Page:    page,
		HasMore: hasMore,
		Stats:   Summary(clients, now),
	}
}
