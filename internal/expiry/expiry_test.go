package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name   string
		expiry *time.Time
		want   *int
	}{
		{"nil expiry", nil, nil},
		{"exactly three days", at(3 * day), intPtr(3)},
		{"23.5 hours rounds up", at(23*time.Hour + 30*time.Minute), intPtr(1)},
		{"two hours ago is zero", at(-2 * time.Hour), intPtr(0)},
		{"exactly one day ago", at(-day), intPtr(-1)},
		{"one and a half days ago", at(-36 * time.Hour), intPtr(-1)},
		{"fifteen days", at(15 * day), intPtr(15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUntil(tt.expiry, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 7, DaysSince(now.Add(-7*day), now))
	assert.Equal(t, 7, DaysSince(now.Add(-7*day-23*time.Hour), now))
	assert.Equal(t, 0, DaysSince(now.Add(-time.Hour), now))
}

func TestIsExpiredAndOverdue(t *testing.T) {
	assert.False(t, IsExpired(nil, now))
	assert.False(t, IsExpired(at(time.Minute), now))
	assert.True(t, IsExpired(at(-time.Minute), now))

	assert.Equal(t, 0, DaysOverdue(*at(-2*time.Hour), now))
	assert.Equal(t, 1, DaysOverdue(*at(-day), now))
	assert.Equal(t, 4, DaysOverdue(*at(-4*day), now))
}

func TestInWindow(t *testing.T) {
	assert.True(t, InWindow(intPtr(3), 3))
	assert.True(t, InWindow(intPtr(1), 3))
	assert.False(t, InWindow(intPtr(0), 3))
	assert.False(t, InWindow(intPtr(4), 3))
	assert.False(t, InWindow(nil, 3))
}

func TestColor(t *testing.T) {
	assert.Equal(t, ColorNone, Color(nil))
	assert.Equal(t, ColorRed, Color(intPtr(-1)))
	assert.Equal(t, ColorAmber, Color(intPtr(0)))
	assert.Equal(t, ColorAmber, Color(intPtr(7)))
	assert.Equal(t, ColorGreen, Color(intPtr(8)))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(now, time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC)))
	assert.False(t, SameDay(now, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestExtendFrom(t *testing.T) {
	future := now.AddDate(0, 0, 10)
	assert.Equal(t, future.AddDate(0, 1, 0), ExtendFrom(&future, 1, now))

	past := now.AddDate(0, 0, -10)
	assert.Equal(t, now.AddDate(0, 3, 0), ExtendFrom(&past, 3, now))
	assert.Equal(t, now.AddDate(0, 1, 0), ExtendFrom(nil, 1, now))
}

func intPtr(v int) *int { return &v }
