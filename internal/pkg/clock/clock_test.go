package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lagos builds an instant from Lagos civil time (UTC+1, no DST).
func lagos(t *testing.T, hour, minute, second int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)
	return time.Date(2026, 3, 10, hour, minute, second, 0, loc)
}

func newTestClock(t *testing.T) *Clock {
	t.Helper()
	c, err := New(DefaultTimezone)
	require.NoError(t, err)
	return c
}

func TestNew_UnknownTimezone(t *testing.T) {
	_, err := New("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestCurrentSlot_HalfHourBoundary(t *testing.T) {
	c := newTestClock(t)
	assert.Equal(t, slot.Index(19), c.CurrentSlot(lagos(t, 9, 30, 0)))
	assert.Equal(t, slot.Index(18), c.CurrentSlot(lagos(t, 9, 29, 59)))
	assert.Equal(t, slot.Index(0), c.CurrentSlot(lagos(t, 0, 0, 0)))
	assert.Equal(t, slot.Index(47), c.CurrentSlot(lagos(t, 23, 59, 59)))
}

func TestCurrentSlot_IgnoresInstantZone(t *testing.T) {
	c := newTestClock(t)
	// 08:30 UTC is 09:30 in Lagos.
	utc := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, slot.Index(19), c.CurrentSlot(utc))

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, slot.Index(19), c.CurrentSlot(utc.In(tokyo)))
}

func TestSecondsRemaining(t *testing.T) {
	c := newTestClock(t)
	assert.Equal(t, 1800, c.SecondsRemaining(lagos(t, 9, 30, 0)))
	assert.Equal(t, 1, c.SecondsRemaining(lagos(t, 9, 59, 59)))
	assert.Equal(t, 15*60, c.SecondsRemaining(lagos(t, 14, 15, 0)))
	assert.Equal(t, 14*60+30, c.SecondsRemaining(lagos(t, 14, 15, 30)))
}

func TestProgressPercent(t *testing.T) {
	c := newTestClock(t)
	assert.InDelta(t, 0.0, c.ProgressPercent(lagos(t, 9, 0, 0)), 1e-9)
	assert.InDelta(t, 50.0, c.ProgressPercent(lagos(t, 14, 15, 0)), 1e-9)

	p := c.ProgressPercent(lagos(t, 9, 29, 59))
	assert.True(t, p > 99 && p <= 100)
}

func TestWithinWorkWindow(t *testing.T) {
	c := newTestClock(t)
	w := slot.DefaultWindow
	assert.False(t, c.WithinWorkWindow(lagos(t, 7, 59, 59), w))
	assert.True(t, c.WithinWorkWindow(lagos(t, 8, 0, 0), w))
	assert.True(t, c.WithinWorkWindow(lagos(t, 17, 29, 59), w))
	assert.False(t, c.WithinWorkWindow(lagos(t, 17, 30, 0), w))
}

func TestToday_UsesCivilDate(t *testing.T) {
	c := newTestClock(t)
	// 23:30 UTC on the 9th is already 00:30 on the 10th in Lagos.
	utc := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", c.Today(utc))
}

func TestIsLoggableNow(t *testing.T) {
	c := newTestClock(t)
	w := slot.DefaultWindow
	now := lagos(t, 10, 0, 0)

	assert.True(t, c.IsLoggableNow("2026-03-10", now, w))
	assert.False(t, c.IsLoggableNow("2026-03-09", now, w))
	assert.False(t, c.IsLoggableNow("2026-03-11", now, w))
	assert.False(t, c.IsLoggableNow("2026-03-10", lagos(t, 18, 0, 0), w))
}

func TestSlotEndsAt(t *testing.T) {
	c := newTestClock(t)
	end, err := c.SlotEndsAt("2026-03-10", 28)
	require.NoError(t, err)
	assert.True(t, end.Equal(lagos(t, 14, 30, 0)))

	_, err = c.SlotEndsAt("10/03/2026", 28)
	assert.Error(t, err)
}

func TestNow_UsesInjectedSource(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 13, 15, 0, 0, time.UTC)
	c, err := New(DefaultTimezone, WithNow(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.True(t, c.Now().Equal(fixed))
	assert.Equal(t, "Africa/Lagos", c.Now().Location().String())
}

func TestSnapshot(t *testing.T) {
	c := newTestClock(t)
	s := c.Snapshot(lagos(t, 14, 15, 0), slot.DefaultWindow)

	assert.Equal(t, "Africa/Lagos", s.Timezone)
	assert.Equal(t, "2026-03-10", s.Today)
	assert.Equal(t, slot.Index(28), s.CurrentSlot)
	assert.Equal(t, "14:00 - 14:30", s.CurrentLabel)
	assert.Equal(t, 900, s.SecondsRemaining)
	assert.True(t, s.WithinWorkWindow)
	assert.Equal(t, "08:00-17:30", s.WorkWindowLabel)
}
