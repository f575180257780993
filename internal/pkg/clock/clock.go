package clock

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
)

// DateLayout is the civil calendar-day format used for activity dates.
const DateLayout = "2006-01-02"

// DefaultTimezone is the zone slot boundaries are defined in.
const DefaultTimezone = "Africa/Lagos"

// Clock resolves instants into slot positions in one fixed civil timezone,
// independent of the host's local zone. It holds no timer.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

type Option func(*Clock)

// WithNow overrides the wall-clock source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New loads the IANA timezone. Unknown zones are an error rather than a silent UTC fallback.
func New(timezone string, opts ...Option) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	c := &Clock{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Timezone() string {
	return c.loc.String()
}

// Now returns the current instant in the clock's timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// CurrentSlot returns the slot containing now, in civil time.
func (c *Clock) CurrentSlot(now time.Time) slot.Index {
	local := now.In(c.loc)
	return slot.FromTimeOfDay(local.Hour(), local.Minute())
}

// SecondsRemaining returns the seconds until the next half-hour boundary.
func (c *Clock) SecondsRemaining(now time.Time) int {
	local := now.In(c.loc)
	return (slot.Minutes-local.Minute()%slot.Minutes)*60 - local.Second()
}

// ProgressPercent is the elapsed share of the current slot, in [0, 100].
func (c *Clock) ProgressPercent(now time.Time) float64 {
	total := float64(slot.Minutes * 60)
	elapsed := total - float64(c.SecondsRemaining(now))
	return elapsed / total * 100
}

func (c *Clock) WithinWorkWindow(now time.Time, w slot.Window) bool {
	return w.Contains(c.CurrentSlot(now))
}

// Today returns the civil date of now as YYYY-MM-DD.
func (c *Clock) Today(now time.Time) string {
	return now.In(c.loc).Format(DateLayout)
}

// IsLoggableNow reports whether activities for date may be written at now:
// date must be today's civil date and now must fall inside the work window.
func (c *Clock) IsLoggableNow(date string, now time.Time, w slot.Window) bool {
	return date == c.Today(now) && c.WithinWorkWindow(now, w)
}

// SlotEndsAt returns the instant slot i of the civil date ends.
func (c *Clock) SlotEndsAt(date string, i slot.Index) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return day.Add(time.Duration(int(i)+1) * slot.Minutes * time.Minute), nil
}

// Snapshot bundles every now-derived value a caller renders per tick.
type Snapshot struct {
	Timezone         string      `json:"timezone"`
	Now              string      `json:"now"`
	Today            string      `json:"today"`
	CurrentSlot      slot.Index  `json:"current_slot"`
	CurrentLabel     string      `json:"current_label"`
	SecondsRemaining int         `json:"seconds_remaining"`
	ProgressPercent  float64     `json:"progress_percent"`
	WithinWorkWindow bool        `json:"within_work_window"`
	WorkWindow       slot.Window `json:"work_window"`
	WorkWindowLabel  string      `json:"work_window_label"`
}

func (c *Clock) Snapshot(now time.Time, w slot.Window) Snapshot {
	current := c.CurrentSlot(now)
	return Snapshot{
		Timezone:         c.Timezone(),
		Now:              now.In(c.loc).Format(time.RFC3339),
		Today:            c.Today(now),
		CurrentSlot:      current,
		CurrentLabel:     slot.Label(current),
		SecondsRemaining: c.SecondsRemaining(now),
		ProgressPercent:  c.ProgressPercent(now),
		WithinWorkWindow: w.Contains(current),
		WorkWindow:       w,
		WorkWindowLabel:  w.String(),
	}
}
