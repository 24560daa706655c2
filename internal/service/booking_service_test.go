package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/r-lysenko/excursion_bot/internal/model"
	"github.com/r-lysenko/excursion_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memBookingStore хранилище в памяти, воспроизводящее уникальное
// ограничение на дату экскурсии
type memBookingStore struct {
	mu       sync.Mutex
	byDate   map[string]*model.Booking
	nextID   int64
	countErr error
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{byDate: make(map[string]*model.Booking)}
}

func dayKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (m *memBookingStore) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := dayKey(booking.ExcursionDate)
	if _, taken := m.byDate[key]; taken {
		return repository.ErrDateTaken
	}

	m.nextID++
	booking.ID = m.nextID
	booking.CreatedAt = time.Now()
	m.byDate[key] = booking
	return nil
}

func (m *memBookingStore) GetByDate(_ context.Context, date time.Time) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byDate[dayKey(date)], nil
}

func (m *memBookingStore) CountByDate(_ context.Context, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	if _, taken := m.byDate[dayKey(date)]; taken {
		return 1, nil
	}
	return 0, nil
}

func (m *memBookingStore) UpcomingByUser(_ context.Context, userID int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.byDate {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookingStore) AllUpcoming(_ context.Context) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Booking, 0, len(m.byDate))
	for _, b := range m.byDate {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBookingStore) BookedDates(_ context.Context) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, 0, len(m.byDate))
	for _, b := range m.byDate {
		out = append(out, b.ExcursionDate)
	}
	return out, nil
}

func (m *memBookingStore) Stats(_ context.Context) (*model.BookingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &model.BookingStats{PerWeekday: make(map[time.Weekday]int)}
	for _, b := range m.byDate {
		stats.Total++
		stats.TotalParticipants += b.ParticipantsCount
		stats.PerWeekday[b.ExcursionDate.Weekday()]++
	}
	return stats, nil
}

func (m *memBookingStore) DeleteByIDAndUser(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, b := range m.byDate {
		if b.ID == id && b.UserID == userID {
			delete(m.byDate, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memBookingStore) DistinctUserIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]bool)
	var out []int64
	for _, b := range m.byDate {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			out = append(out, b.UserID)
		}
	}
	return out, nil
}

func testBooking(userID int64, date time.Time) *model.Booking {
	return &model.Booking{
		UserID:            userID,
		SchoolName:        "Школа №5",
		ClassNumber:       "10А",
		ClassProfile:      "нет",
		ExcursionDate:     date,
		ExcursionTime:     "11:00",
		ContactPerson:     "Иванов Иван",
		ContactPhone:      "+79161234567",
		ParticipantsCount: 15,
	}
}

func TestCreateBookingOncePerDate(t *testing.T) {
	store := newMemBookingStore()
	svc := NewBookingService(store, zap.NewNop())
	ctx := context.Background()
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	available, err := svc.IsDateAvailable(ctx, date)
	require.NoError(t, err)
	assert.True(t, available)

	require.NoError(t, svc.CreateBooking(ctx, testBooking(1, date)))

	available, err = svc.IsDateAvailable(ctx, date)
	require.NoError(t, err)
	assert.False(t, available)

	// Время суток в запросе не влияет: занят весь день
	available, err = svc.IsDateAvailable(ctx, date.Add(13*time.Hour+45*time.Minute))
	require.NoError(t, err)
	assert.False(t, available)

	err = svc.CreateBooking(ctx, testBooking(2, date))
	assert.ErrorIs(t, err, ErrDateTaken)
}

func TestCreateBookingConcurrentSameDate(t *testing.T) {
	store := newMemBookingStore()
	svc := NewBookingService(store, zap.NewNop())
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	const attempts = 10
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			results <- svc.CreateBooking(context.Background(), testBooking(userID, date))
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDateTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestIsDateAvailableReadFailure(t *testing.T) {
	store := newMemBookingStore()
	store.countErr = errors.New("connection reset")
	svc := NewBookingService(store, zap.NewNop())

	available, err := svc.IsDateAvailable(context.Background(), time.Now())
	assert.Error(t, err)
	assert.False(t, available)
}

func TestBookingForDate(t *testing.T) {
	store := newMemBookingStore()
	svc := NewBookingService(store, zap.NewNop())
	ctx := context.Background()
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	got, err := svc.BookingForDate(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, svc.CreateBooking(ctx, testBooking(1, date)))

	got, err = svc.BookingForDate(ctx, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Школа №5", got.SchoolName)
}

func TestCancelBooking(t *testing.T) {
	store := newMemBookingStore()
	svc := NewBookingService(store, zap.NewNop())
	ctx := context.Background()
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	booking := testBooking(1, date)
	require.NoError(t, svc.CreateBooking(ctx, booking))

	// Чужую заявку отменить нельзя
	err := svc.CancelBooking(ctx, booking.ID, 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	require.NoError(t, svc.CancelBooking(ctx, booking.ID, 1))

	available, err := svc.IsDateAvailable(ctx, date)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestRecipientIDs(t *testing.T) {
	store := newMemBookingStore()
	svc := NewBookingService(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.CreateBooking(ctx, testBooking(1, time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, svc.CreateBooking(ctx, testBooking(1, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, svc.CreateBooking(ctx, testBooking(2, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))))

	ids, err := svc.RecipientIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
