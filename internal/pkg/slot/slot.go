package slot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// SlotsPerDay is the number of half-hour slots in a civil day.
	SlotsPerDay = 48
	// Minutes is the length of a single slot.
	Minutes = 30

	minutesPerDay = SlotsPerDay * Minutes
)

var (
	ErrInvalidInterval = errors.New("time interval must be in HH:MM - HH:MM format")
	ErrIntervalOrder   = errors.New("start time must be before end time")
	ErrInvalidWindow   = errors.New("work window must satisfy 0 <= start < end <= 48")
)

// Index identifies a half-hour period of the day, 0 = 00:00-00:30.
type Index int

// FromTimeOfDay maps a civil hour and minute to the slot containing it.
func FromTimeOfDay(hour, minute int) Index {
	return Index(hour*2 + minute/Minutes)
}

// Valid reports whether i lies inside a single day.
func (i Index) Valid() bool {
	return i >= 0 && i < SlotsPerDay
}

// Start returns the hour and minute at which the slot begins.
func (i Index) Start() (hour, minute int) {
	m := (int(i) % SlotsPerDay) * Minutes
	return m / 60, m % 60
}

// End returns the hour and minute at which the slot ends. The last slot ends at 00:00.
func (i Index) End() (hour, minute int) {
	return ((i + 1) % SlotsPerDay).Start()
}

// Label formats the slot as "HH:MM - HH:MM".
func Label(i Index) string {
	sh, sm := i.Start()
	eh, em := i.End()
	return fmt.Sprintf("%02d:%02d - %02d:%02d", sh, sm, eh, em)
}

func (i Index) String() string {
	return Label(i)
}

// FromLabel derives the slot index from the start time of an interval label.
// Only the part before the first '-' is read, so "09:00 - 10:30" resolves to 18.
func FromLabel(label string) (Index, error) {
	start, _, _ := strings.Cut(label, "-")
	h, m, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	return FromTimeOfDay(h, m), nil
}

func parseClock(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hs) == 0 || len(hs) > 2 || len(ms) != 2 || !isDigits(hs) || !isDigits(ms) {
		return 0, 0, ErrInvalidInterval
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidInterval
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidInterval
	}
	return hour, minute, nil
}

// isDigits reports whether s is all ASCII digits. strconv.Atoi alone would accept a sign.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var intervalRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]\s*-\s*([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidIntervalFormat checks the write-time interval format.
func IsValidIntervalFormat(s string) bool {
	return intervalRegex.MatchString(strings.TrimSpace(s))
}

// Interval is a half-open range of minutes of the day, [StartMinute, EndMinute).
type Interval struct {
	StartMinute int
	EndMinute   int
}

// ParseInterval validates a user supplied "HH:MM - HH:MM" string.
// An end of 00:00 is read as midnight at the end of the day.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if !intervalRegex.MatchString(s) {
		return Interval{}, ErrInvalidInterval
	}
	startStr, endStr, _ := strings.Cut(s, "-")
	sh, sm, err := parseClock(startStr)
	if err != nil {
		return Interval{}, err
	}
	eh, em, err := parseClock(endStr)
	if err != nil {
		return Interval{}, err
	}

	iv := Interval{StartMinute: sh*60 + sm, EndMinute: eh*60 + em}
	if iv.EndMinute == 0 {
		iv.EndMinute = minutesPerDay
	}
	if iv.StartMinute >= iv.EndMinute {
		return Interval{}, ErrIntervalOrder
	}
	return iv, nil
}

// Slot returns the slot containing the start of the interval.
func (iv Interval) Slot() Index {
	return Index(iv.StartMinute / Minutes)
}

// String returns the zero-padded canonical form.
func (iv Interval) String() string {
	end := iv.EndMinute % minutesPerDay
	return fmt.Sprintf("%02d:%02d - %02d:%02d", iv.StartMinute/60, iv.StartMinute%60, end/60, end%60)
}

// IntervalFor returns the single-slot interval for i.
func IntervalFor(i Index) Interval {
	start := int(i) * Minutes
	return Interval{StartMinute: start, EndMinute: start + Minutes}
}
