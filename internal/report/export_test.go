package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/r-lysenko/excursion_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExport(t *testing.T) {
	bookings := []*model.Booking{
		{
			ID:                1,
			UserID:            42,
			Username:          "petrova",
			SchoolName:        "Школа №5",
			ClassNumber:       "10А",
			ClassProfile:      "нет",
			ExcursionDate:     time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
			ExcursionTime:     "11:00",
			ContactPerson:     "Иванов Иван",
			ContactPhone:      "+79161234567",
			ParticipantsCount: 15,
			CreatedAt:         time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:                2,
			UserID:            43,
			SchoolName:        "Гимназия №1",
			ClassNumber:       "8Б",
			ClassProfile:      "физмат",
			ExcursionDate:     time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
			ExcursionTime:     "10:00",
			ContactPerson:     "Петров Пётр",
			ContactPhone:      "+79160000000",
			ParticipantsCount: 20,
			CreatedAt:         time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC),
		},
	}

	file, err := NewCSVExporter().Export(bookings)
	require.NoError(t, err)
	assert.Contains(t, file.Name, "bookings_export_")
	assert.Contains(t, file.Name, ".csv")

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "02.06.2025 09:30", first[1])
	assert.Equal(t, "42", first[2])
	assert.Equal(t, "petrova", first[3])
	assert.Equal(t, "Школа №5", first[4])
	assert.Equal(t, "25.12.2025", first[7])
	assert.Equal(t, "11:00", first[8])
	assert.Equal(t, "+79161234567", first[10])
	assert.Equal(t, "15", first[11])

	second := records[2]
	assert.Equal(t, "Гимназия №1", second[4])
	assert.Equal(t, "20", second[11])
}

func TestCSVExportEmpty(t *testing.T) {
	file, err := NewCSVExporter().Export(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
