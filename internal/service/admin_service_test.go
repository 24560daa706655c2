package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memAdminStore struct {
	admins    map[int64]bool
	existsErr error
}

func newMemAdminStore(ids ...int64) *memAdminStore {
	store := &memAdminStore{admins: make(map[int64]bool)}
	for _, id := range ids {
		store.admins[id] = true
	}
	return store
}

func (m *memAdminStore) Exists(_ context.Context, telegramID int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.admins[telegramID], nil
}

func (m *memAdminStore) Add(_ context.Context, telegramID, _ int64) (bool, error) {
	if m.admins[telegramID] {
		return false, nil
	}
	m.admins[telegramID] = true
	return true, nil
}

func (m *memAdminStore) Remove(_ context.Context, telegramID int64) (bool, error) {
	if !m.admins[telegramID] {
		return false, nil
	}
	delete(m.admins, telegramID)
	return true, nil
}

func (m *memAdminStore) List(_ context.Context) ([]int64, error) {
	out := make([]int64, 0, len(m.admins))
	for id := range m.admins {
		out = append(out, id)
	}
	return out, nil
}

func TestIsAdmin(t *testing.T) {
	store := newMemAdminStore(100)
	svc := NewAdminService(store, zap.NewNop())
	ctx := context.Background()

	assert.True(t, svc.IsAdmin(ctx, 100))
	assert.False(t, svc.IsAdmin(ctx, 200))
}

func TestIsAdminReadFailureDeniesAccess(t *testing.T) {
	store := newMemAdminStore(100)
	store.existsErr = errors.New("connection reset")
	svc := NewAdminService(store, zap.NewNop())

	assert.False(t, svc.IsAdmin(context.Background(), 100))
}

func TestAddAdmin(t *testing.T) {
	store := newMemAdminStore(100)
	svc := NewAdminService(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.AddAdmin(ctx, 200, 100))
	assert.True(t, svc.IsAdmin(ctx, 200))

	err := svc.AddAdmin(ctx, 200, 100)
	assert.ErrorIs(t, err, ErrAlreadyAdmin)
}

func TestRemoveAdmin(t *testing.T) {
	store := newMemAdminStore(100, 200)
	svc := NewAdminService(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.RemoveAdmin(ctx, 200, 100))
	assert.False(t, svc.IsAdmin(ctx, 200))

	err := svc.RemoveAdmin(ctx, 200, 100)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestRemoveAdminSelfRefused(t *testing.T) {
	store := newMemAdminStore(100)
	svc := NewAdminService(store, zap.NewNop())
	ctx := context.Background()

	err := svc.RemoveAdmin(ctx, 100, 100)
	assert.ErrorIs(t, err, ErrSelfRemoval)
	assert.True(t, svc.IsAdmin(ctx, 100))
}

func TestListAdmins(t *testing.T) {
	store := newMemAdminStore(100, 200, 300)
	svc := NewAdminService(store, zap.NewNop())

	ids, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{100, 200, 300}, ids)
}
