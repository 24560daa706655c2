package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidClassNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"10А", true},
		{"8Б", true},
		{"11", true},
		{"1", true},
		{"9b", true},
		{"0А", false},
		{"10АБ", false},
		{"", false},
		{"А10", false},
		{"100", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidClassNumber(tt.input))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"89161234567", "+79161234567", true},
		{"+79161234567", "+79161234567", true},
		{"79161234567", "+79161234567", true},
		{"8 (916) 123-45-67", "+79161234567", true},
		{"+7 916 123 45 67", "+79161234567", true},
		{"9161234567", "", false},
		{"8916123456", "", false},
		{"891612345678", "", false},
		{"телефон", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizePhone(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizePhoneCanonicalForm(t *testing.T) {
	// Три допустимых префикса дают один и тот же канонический номер
	inputs := []string{"89161234567", "+79161234567", "79161234567"}
	for _, input := range inputs {
		got, ok := NormalizePhone(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, "+79161234567", got, "input %q", input)
	}
}

func TestParseExcursionDate(t *testing.T) {
	want := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"25.12.2024", "25/12/2024", "2024-12-25"} {
		got, err := ParseExcursionDate(input)
		require.NoError(t, err, "input %q", input)
		assert.True(t, want.Equal(got), "input %q", input)
	}

	for _, input := range []string{"25-12-2024", "2024.12.25", "25.13.2024", "abc", ""} {
		_, err := ParseExcursionDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseExcursionTime(t *testing.T) {
	hour, err := ParseExcursionTime("11:30")
	require.NoError(t, err)
	assert.Equal(t, 11, hour)

	hour, err = ParseExcursionTime("9:00")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)

	for _, input := range []string{"25:00", "10:60", "10.00", "пол-одиннадцатого", ""} {
		_, err := ParseExcursionTime(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestValidContactPerson(t *testing.T) {
	assert.True(t, ValidContactPerson("Иванов Иван"))
	assert.True(t, ValidContactPerson("Иванов Иван Иванович"))
	assert.False(t, ValidContactPerson("Иванов"))
	assert.False(t, ValidContactPerson("   "))
}

func TestParseParticipants(t *testing.T) {
	tests := []struct {
		input string
		want  int
		valid bool
	}{
		{"1", 1, true},
		{"15", 15, true},
		{"20", 20, true},
		{"0", 0, false},
		{"21", 0, false},
		{"25", 0, false},
		{"-5", 0, false},
		{"пятнадцать", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseParticipants(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValidSchoolName(t *testing.T) {
	assert.True(t, ValidSchoolName("Школа №5"))
	assert.True(t, ValidSchoolName("ГБОУ"))
	assert.False(t, ValidSchoolName("аб"))
	assert.False(t, ValidSchoolName("  а  "))
}
