package handlers

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShort(t *testing.T) {
	assert.Equal(t, []string{"привет"}, splitMessage("привет"))
	assert.Empty(t, splitMessage(""))
}

func TestSplitMessageCutsAtLineBoundary(t *testing.T) {
	line := strings.Repeat("а", 100)
	text := strings.TrimSuffix(strings.Repeat(line+"\n", 50), "\n")

	chunks := splitMessage(text)
	require.Greater(t, len(chunks), 1)

	var lines []string
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), maxMessageLength)
		assert.False(t, strings.HasPrefix(chunk, "\n"))
		assert.False(t, strings.HasSuffix(chunk, "\n"))
		lines = append(lines, strings.Split(chunk, "\n")...)
	}

	// Ни одна строка не потеряна и не разорвана
	require.Len(t, lines, 50)
	for _, l := range lines {
		assert.Equal(t, line, l)
	}
}

func TestSplitMessageKeepsRunesIntact(t *testing.T) {
	// Трёхбайтовые руны, без переносов: 4000 не кратно 3, резать
	// придётся по границе руны
	text := strings.Repeat("⭐", 2000)

	chunks := splitMessage(text)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), maxMessageLength)
		assert.True(t, utf8.ValidString(chunk))
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestFormatWeekdayStats(t *testing.T) {
	days := []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}
	perWeekday := map[time.Weekday]int{
		time.Tuesday:  2,
		time.Thursday: 1,
		// Воскресенье не рабочий день, в вывод не попадает
		time.Sunday: 7,
	}

	got := formatWeekdayStats(days, perWeekday)
	assert.Equal(t, "• Вт: 2\n• Ср: 0\n• Чт: 1", got)
}
