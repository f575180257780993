package slot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTimeOfDay(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         Index
	}{
		{0, 0, 0},
		{0, 29, 0},
		{0, 30, 1},
		{8, 0, 16},
		{9, 30, 19},
		{14, 15, 28},
		{17, 29, 34},
		{23, 59, 47},
	}
	for _, c := range cases {
		if got := FromTimeOfDay(c.hour, c.minute); got != c.want {
			t.Errorf("FromTimeOfDay(%d, %d) = %d, want %d", c.hour, c.minute, got, c.want)
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "00:00 - 00:30", Label(0))
	assert.Equal(t, "08:00 - 08:30", Label(16))
	assert.Equal(t, "14:00 - 14:30", Label(28))
	assert.Equal(t, "23:30 - 00:00", Label(47))
}

func TestLabelRoundTrip(t *testing.T) {
	for i := Index(0); i < SlotsPerDay; i++ {
		got, err := FromLabel(Label(i))
		require.NoError(t, err)
		assert.Equal(t, i, got, "round trip of %q", Label(i))
	}
}

func TestFromLabel(t *testing.T) {
	got, err := FromLabel("09:00 - 10:30")
	require.NoError(t, err)
	assert.Equal(t, Index(18), got)

	got, err = FromLabel("  14:15-14:45 ")
	require.NoError(t, err)
	assert.Equal(t, Index(28), got)

	got, err = FromLabel("7:30 - 8:00")
	require.NoError(t, err)
	assert.Equal(t, Index(15), got)

	invalid := []string{
		"", "abc", "25:00 - 25:30", "09:60 - 10:00", "9:5 - 10:00", ":30 - 10:00",
		"+9:00 - 09:30", "09:+5 - 09:30", " +9:30-10:00", "٠٩:00 - 09:30",
	}
	for _, s := range invalid {
		_, err := FromLabel(s)
		assert.ErrorIs(t, err, ErrInvalidInterval, "FromLabel(%q)", s)
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("09:00 - 09:30")
	require.NoError(t, err)
	assert.Equal(t, Interval{StartMinute: 540, EndMinute: 570}, iv)
	assert.Equal(t, Index(18), iv.Slot())
	assert.Equal(t, "09:00 - 09:30", iv.String())

	iv, err = ParseInterval("9:00-9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:00 - 09:30", iv.String())

	iv, err = ParseInterval("23:30 - 00:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, iv.EndMinute)
	assert.Equal(t, Index(47), iv.Slot())
	assert.Equal(t, "23:30 - 00:00", iv.String())
}

func TestParseInterval_Rejects(t *testing.T) {
	_, err := ParseInterval("9:5 - 10:00")
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	_, err = ParseInterval("10:00 - 09:00")
	assert.True(t, errors.Is(err, ErrIntervalOrder))

	_, err = ParseInterval("10:00 - 10:00")
	assert.True(t, errors.Is(err, ErrIntervalOrder))

	_, err = ParseInterval("24:00 - 24:30")
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}

func TestIsValidIntervalFormat(t *testing.T) {
	valid := []string{"08:00 - 08:30", "8:00-8:30", "23:30 -00:00"}
	invalid := []string{"9:5 - 10:00", "08:00", "08:00 - ", "aa:bb - cc:dd"}
	for _, s := range valid {
		if !IsValidIntervalFormat(s) {
			t.Errorf("IsValidIntervalFormat(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidIntervalFormat(s) {
			t.Errorf("IsValidIntervalFormat(%q) = true, want false", s)
		}
	}
}

func TestIntervalFor(t *testing.T) {
	assert.Equal(t, "16:30 - 17:00", IntervalFor(33).String())
	assert.Equal(t, "23:30 - 00:00", IntervalFor(47).String())
}

func TestWindow(t *testing.T) {
	w := DefaultWindow
	require.NoError(t, w.Validate())
	assert.Equal(t, 19, w.Len())
	assert.True(t, w.Contains(16))
	assert.True(t, w.Contains(34))
	assert.False(t, w.Contains(35))
	assert.False(t, w.Contains(15))
	assert.Equal(t, "08:00-17:30", w.String())

	idx := w.Indexes()
	require.Len(t, idx, 19)
	assert.Equal(t, Index(16), idx[0])
	assert.Equal(t, Index(34), idx[18])
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08:00-17:30")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, w)

	w, err = ParseWindow("22:00 - 00:00")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 44, End: 48}, w)

	_, err = ParseWindow("08:15-17:30")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ParseWindow("17:30-08:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ParseWindow("0800")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
