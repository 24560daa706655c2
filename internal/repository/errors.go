package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDateTaken дата уже занята другой заявкой: вставка нарушила
// уникальное ограничение на excursion_date
var ErrDateTaken = errors.New("excursion date already taken")

// ErrNotFound запись не найдена или не принадлежит пользователю
var ErrNotFound = errors.New("booking not found")

const pgUniqueViolation = "23505"

// isDateUniqueViolation проверяет, что ошибка — нарушение уникальности даты.
// Конфликт разрешается именно здесь: проверка доступности перед вставкой
// носит информационный характер и от гонок не защищает.
func isDateUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation
}
