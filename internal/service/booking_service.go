package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r-lysenko/excursion_bot/internal/model"
	"github.com/r-lysenko/excursion_bot/internal/repository"
	"go.uber.org/zap"
)

// ErrDateTaken дата уже занята другой заявкой
var ErrDateTaken = repository.ErrDateTaken

// ErrBookingNotFound заявка не найдена или принадлежит другому пользователю
var ErrBookingNotFound = repository.ErrNotFound

// BookingStore операции календаря заявок, нужные сервису
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByDate(ctx context.Context, date time.Time) (*model.Booking, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)
	UpcomingByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
	AllUpcoming(ctx context.Context) ([]*model.Booking, error)
	BookedDates(ctx context.Context) ([]time.Time, error)
	Stats(ctx context.Context) (*model.BookingStats, error)
	DeleteByIDAndUser(ctx context.Context, id, userID int64) error
	DistinctUserIDs(ctx context.Context) ([]int64, error)
}

type BookingService struct {
	store  BookingStore
	logger *zap.Logger
}

func NewBookingService(store BookingStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
	}
}

// IsDateAvailable проверяет, свободна ли дата. При ошибке чтения дата
// считается занятой: лучше отказать, чем допустить двойное бронирование.
func (s *BookingService) IsDateAvailable(ctx context.Context, date time.Time) (bool, error) {
	count, err := s.store.CountByDate(ctx, date)
	if err != nil {
		s.logger.Error("Failed to check date availability",
			zap.Time("date", date),
			zap.Error(err))
		return false, fmt.Errorf("check date availability: %w", err)
	}
	return count == 0, nil
}

// BookingForDate получает заявку, занимающую дату (для показа конфликта)
func (s *BookingService) BookingForDate(ctx context.Context, date time.Time) (*model.Booking, error) {
	return s.store.GetByDate(ctx, date)
}

// CreateBooking вставляет заявку. Гонка двух заявок на одну дату
// разрешается уникальным ограничением в БД: выигрывает первая вставка,
// вторая получает ErrDateTaken.
func (s *BookingService) CreateBooking(ctx context.Context, booking *model.Booking) error {
	err := s.store.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, ErrDateTaken) {
			s.logger.Warn("Date taken by concurrent booking",
				zap.Time("date", booking.ExcursionDate),
				zap.Int64("user_id", booking.UserID))
			return ErrDateTaken
		}
		s.logger.Error("Failed to create booking",
			zap.Time("date", booking.ExcursionDate),
			zap.Int64("user_id", booking.UserID),
			zap.Error(err))
		return fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", booking.UserID),
		zap.Time("date", booking.ExcursionDate),
		zap.String("time", booking.ExcursionTime),
		zap.String("school", booking.SchoolName))

	return nil
}

// UserBookings получает будущие заявки пользователя
func (s *BookingService) UserBookings(ctx context.Context, userID int64) ([]*model.Booking, error) {
	return s.store.UpcomingByUser(ctx, userID)
}

// AllUpcoming получает все будущие заявки
func (s *BookingService) AllUpcoming(ctx context.Context) ([]*model.Booking, error) {
	return s.store.AllUpcoming(ctx)
}

// BookedDates возвращает занятые даты начиная с сегодняшней
func (s *BookingService) BookedDates(ctx context.Context) ([]time.Time, error) {
	return s.store.BookedDates(ctx)
}

// Stats собирает статистику по заявкам
func (s *BookingService) Stats(ctx context.Context) (*model.BookingStats, error) {
	return s.store.Stats(ctx)
}

// CancelBooking удаляет заявку, только если её создал этот пользователь
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	err := s.store.DeleteByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("Booking canceled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID))

	return nil
}

// RecipientIDs возвращает пользователей для рассылки
func (s *BookingService) RecipientIDs(ctx context.Context) ([]int64, error) {
	return s.store.DistinctUserIDs(ctx)
}
