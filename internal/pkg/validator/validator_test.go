package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"00:00", "08:00", "12:30", "23:59", "08:00:00", "17:45:59"}
	for _, s := range valid {
		assert.True(t, IsValidClockTime(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "24:00", "8:00", "12:60", "12:30:60", "ab:cd", "12-30", "12:30:00:00"}
	for _, s := range invalid {
		assert.False(t, IsValidClockTime(s), "expected %q to be invalid", s)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2025-03-10")
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year())

	_, ok = IsValidDate("10/03/2025")
	assert.False(t, ok)
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "comment", Message: "comment is required"},
		{Field: "punch_1", Message: "must be a valid HH:MM time"},
	}

	m := errs.ToMap()
	assert.Equal(t, "comment is required", m["comment"])
	assert.Equal(t, "must be a valid HH:MM time", m["punch_1"])
	assert.Contains(t, errs.Error(), "comment: comment is required")
}
