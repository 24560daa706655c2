package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkingDaysDefault(t *testing.T) {
	days, err := parseWorkingDays("")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}, days)
}

func TestParseWorkingDaysCustom(t *testing.T) {
	days, err := parseWorkingDays("1, 5")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, days)
}

func TestParseWorkingDaysInvalid(t *testing.T) {
	for _, raw := range []string{"7", "-1", "пн", "2;3"} {
		_, err := parseWorkingDays(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseHour(t *testing.T) {
	h, err := parseHour("", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, h)

	h, err = parseHour("15", 10)
	require.NoError(t, err)
	assert.Equal(t, 15, h)

	for _, raw := range []string{"24", "-1", "десять"} {
		_, err := parseHour(raw, 10)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestIsWorkingDay(t *testing.T) {
	cfg := &Config{WorkingDays: []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}}

	assert.True(t, cfg.IsWorkingDay(time.Tuesday))
	assert.True(t, cfg.IsWorkingDay(time.Thursday))
	assert.False(t, cfg.IsWorkingDay(time.Monday))
	assert.False(t, cfg.IsWorkingDay(time.Sunday))
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DB_DSN", "postgres://localhost/excursions")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DB_DSN", "postgres://localhost/excursions")
	t.Setenv("ENV", "")
	t.Setenv("MIGRATIONS_PATH", "")
	t.Setenv("WORKING_DAYS", "")
	t.Setenv("WORKING_HOURS_START", "")
	t.Setenv("WORKING_HOURS_END", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}, cfg.WorkingDays)
	assert.Equal(t, 10, cfg.WorkingHoursStart)
	assert.Equal(t, 15, cfg.WorkingHoursEnd)
}

func TestLoadRejectsInvertedHours(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DB_DSN", "postgres://localhost/excursions")
	t.Setenv("WORKING_HOURS_START", "15")
	t.Setenv("WORKING_HOURS_END", "10")

	_, err := Load()
	assert.Error(t, err)
}
