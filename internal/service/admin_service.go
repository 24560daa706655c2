package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyAdmin пользователь уже в списке администраторов
	ErrAlreadyAdmin = errors.New("user is already an admin")
	// ErrNotAdmin пользователя нет в списке администраторов
	ErrNotAdmin = errors.New("user is not an admin")
	// ErrSelfRemoval администратор пытается удалить сам себя
	ErrSelfRemoval = errors.New("admin cannot remove themselves")
)

// AdminStore хранилище списка администраторов
type AdminStore interface {
	Exists(ctx context.Context, telegramID int64) (bool, error)
	Add(ctx context.Context, telegramID, addedBy int64) (bool, error)
	Remove(ctx context.Context, telegramID int64) (bool, error)
	List(ctx context.Context) ([]int64, error)
}

// AdminService отвечает на один вопрос ядра — "этот пользователь
// администратор?" — и обслуживает управление списком из админ-панели.
type AdminService struct {
	store  AdminStore
	logger *zap.Logger
}

func NewAdminService(store AdminStore, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
	}
}

// IsAdmin проверяет права. При ошибке чтения доступ не предоставляется.
func (s *AdminService) IsAdmin(ctx context.Context, telegramID int64) bool {
	exists, err := s.store.Exists(ctx, telegramID)
	if err != nil {
		s.logger.Error("Failed to check admin",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		return false
	}
	return exists
}

// AddAdmin добавляет администратора
func (s *AdminService) AddAdmin(ctx context.Context, telegramID, addedBy int64) error {
	added, err := s.store.Add(ctx, telegramID, addedBy)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	if !added {
		return ErrAlreadyAdmin
	}

	s.logger.Info("Admin added",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("added_by", addedBy))

	return nil
}

// RemoveAdmin удаляет администратора. Удалить самого себя нельзя.
func (s *AdminService) RemoveAdmin(ctx context.Context, telegramID, removedBy int64) error {
	if telegramID == removedBy {
		return ErrSelfRemoval
	}

	removed, err := s.store.Remove(ctx, telegramID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	if !removed {
		return ErrNotAdmin
	}

	s.logger.Info("Admin removed",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("removed_by", removedBy))

	return nil
}

// ListAdmins возвращает все ID администраторов
func (s *AdminService) ListAdmins(ctx context.Context) ([]int64, error) {
	return s.store.List(ctx)
}
