package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskbot/internal/models"
)

// CreateUser inserts a user unless one with the same Telegram ID exists.
// It reports whether a new row was written.
func (db *DB) CreateUser(ctx context.Context, u models.User) (bool, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, chat_id, name, phone, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO NOTHING
	`, u.TelegramID, u.ChatID, u.Name, u.Phone, sqlTime(u.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("create user %d: %w", u.TelegramID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetUser retrieves a user by Telegram ID
func (db *DB) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	u := &models.User{}
	err := db.QueryRowContext(ctx, `
		SELECT telegram_id, chat_id, name, phone, created_at
		FROM users WHERE telegram_id = ?
	`, telegramID).Scan(&u.TelegramID, &u.ChatID, &u.Name, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", telegramID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
