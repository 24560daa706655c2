package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/r-lysenko/excursion_bot/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, user_id, username, school_name, class_number, class_profile,
		excursion_date, excursion_time, contact_person, contact_phone, participants_count, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Username,
		&b.SchoolName,
		&b.ClassNumber,
		&b.ClassProfile,
		&b.ExcursionDate,
		&b.ExcursionTime,
		&b.ContactPerson,
		&b.ContactPhone,
		&b.ParticipantsCount,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create создаёт новую заявку. Если дата уже занята, возвращает ErrDateTaken.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (user_id, username, school_name, class_number, class_profile,
			excursion_date, excursion_time, contact_person, contact_phone, participants_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.UserID,
		booking.Username,
		booking.SchoolName,
		booking.ClassNumber,
		booking.ClassProfile,
		booking.ExcursionDate,
		booking.ExcursionTime,
		booking.ContactPerson,
		booking.ContactPhone,
		booking.ParticipantsCount,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		if isDateUniqueViolation(err) {
			return ErrDateTaken
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByDate получает заявку на указанную дату (на дату может быть только одна)
func (r *BookingRepository) GetByDate(ctx context.Context, date time.Time) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE excursion_date = $1
		LIMIT 1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by date: %w", err)
	}

	return booking, nil
}

// CountByDate возвращает количество заявок на дату
func (r *BookingRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE excursion_date = $1`, date,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings by date: %w", err)
	}
	return count, nil
}

// UpcomingByUser получает будущие заявки пользователя
func (r *BookingRepository) UpcomingByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND excursion_date >= CURRENT_DATE
		ORDER BY excursion_date, excursion_time
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by user: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// AllUpcoming получает все будущие заявки (для админки)
func (r *BookingRepository) AllUpcoming(ctx context.Context) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE excursion_date >= CURRENT_DATE
		ORDER BY excursion_date, excursion_time
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// BookedDates возвращает занятые даты начиная с сегодняшней
func (r *BookingRepository) BookedDates(ctx context.Context) ([]time.Time, error) {
	query := `
		SELECT DISTINCT excursion_date
		FROM bookings
		WHERE excursion_date >= CURRENT_DATE
		ORDER BY excursion_date
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get booked dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan booked date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// Stats собирает статистику по заявкам, включая разбивку по дням недели
func (r *BookingRepository) Stats(ctx context.Context) (*model.BookingStats, error) {
	stats := &model.BookingStats{
		PerWeekday: make(map[time.Weekday]int),
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE excursion_date > CURRENT_DATE),
			COALESCE(SUM(participants_count), 0)
		FROM bookings
	`).Scan(&stats.Total, &stats.Future, &stats.TotalParticipants)
	if err != nil {
		return nil, fmt.Errorf("get booking stats: %w", err)
	}

	// Разбивка по дням недели считается только по будущим заявкам
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(DOW FROM excursion_date)::int, COUNT(*)
		FROM bookings
		WHERE excursion_date >= CURRENT_DATE
		GROUP BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("get weekday stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dow, count int
		if err := rows.Scan(&dow, &count); err != nil {
			return nil, fmt.Errorf("scan weekday stats: %w", err)
		}
		stats.PerWeekday[time.Weekday(dow)] = count
	}

	return stats, rows.Err()
}

// DeleteByIDAndUser удаляет заявку, только если она принадлежит пользователю.
// Возвращает ErrNotFound, если такой заявки нет.
func (r *BookingRepository) DeleteByIDAndUser(ctx context.Context, id, userID int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DistinctUserIDs возвращает всех пользователей, когда-либо оставлявших заявку
func (r *BookingRepository) DistinctUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT user_id FROM bookings`)
	if err != nil {
		return nil, fmt.Errorf("get distinct user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
