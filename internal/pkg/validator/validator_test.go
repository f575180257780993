package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"standup", false},
		{" standup ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-15", "2024-02-29"}
	invalid := []string{"2025-13-01", "2025-01-32", "2025-02-29", "2025/01/15", "15-01-2025", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, "IsValidDate(%q)", s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsValidDateTime(t *testing.T) {
	got, ok := IsValidDateTime("2025-01-15T14:15:00+01:00")
	assert.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 1, 15, 13, 15, 0, 0, time.UTC)))

	got, ok = IsValidDateTime("2025-01-15T13:15:00.123456Z")
	assert.True(t, ok)
	assert.Equal(t, 123456000, got.Nanosecond())

	for _, s := range []string{"2025-01-15", "2025-01-15 13:15:00", "yesterday", ""} {
		_, ok := IsValidDateTime(s)
		assert.False(t, ok, "IsValidDateTime(%q)", s)
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"pending", "ongoing", "completed"}
	assert.True(t, IsInSlice("ongoing", statuses))
	assert.False(t, IsInSlice("Ongoing", statuses))
	assert.False(t, IsInSlice("done", statuses))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "time_interval", Message: "invalid"},
		{Field: "description", Message: "required"},
	}

	assert.Equal(t, "time_interval: invalid; description: required", errs.Error())
	assert.Equal(t, map[string]string{
		"time_interval": "invalid",
		"description":   "required",
	}, errs.ToMap())
}
