package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDateUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_excursion_date_key"}
	assert.True(t, isDateUniqueViolation(unique))

	// Обёртка не мешает распознаванию
	wrapped := fmt.Errorf("create booking: %w", unique)
	assert.True(t, isDateUniqueViolation(wrapped))

	foreignKey := &pgconn.PgError{Code: "23503"}
	assert.False(t, isDateUniqueViolation(foreignKey))

	assert.False(t, isDateUniqueViolation(errors.New("connection reset")))
	assert.False(t, isDateUniqueViolation(nil))
}
