package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository хранит список администраторов бота
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// Exists проверяет, является ли пользователь администратором
func (r *AdminRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = $1)`, telegramID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return exists, nil
}

// Add добавляет администратора. Повторное добавление не является ошибкой.
func (r *AdminRepository) Add(ctx context.Context, telegramID, addedBy int64) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO admins (telegram_id, added_by)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO NOTHING
	`, telegramID, addedBy)
	if err != nil {
		return false, fmt.Errorf("add admin: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Remove удаляет администратора
func (r *AdminRepository) Remove(ctx context.Context, telegramID int64) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM admins WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return false, fmt.Errorf("remove admin: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// List возвращает все ID администраторов
func (r *AdminRepository) List(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT telegram_id FROM admins ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan admin id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
