package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskbot/internal/models"
)

const taskColumns = `id, user_id, text, status, created_at, updated_at`

// CreateTask creates a new planned task for a user
func (db *DB) CreateTask(ctx context.Context, userID int64, text string, at time.Time) (*models.Task, error) {
	stamp := sqlTime(at)
	result, err := db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, text, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, userID, text, models.StatusPlanned, stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(ctx, userID, id)
}

// GetTask retrieves a task by ID, scoped to its owner
func (db *DB) GetTask(ctx context.Context, userID, id int64) (*models.Task, error) {
	t := &models.Task{}
	err := db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&t.ID, &t.UserID, &t.Text, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListOpenTasks returns the user's tasks that are not done, newest first
func (db *DB) ListOpenTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	return db.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ? AND status <> ?
		ORDER BY created_at DESC, id DESC
	`, userID, models.StatusDone)
}

// ListTasksTouchedBetween returns the user's tasks created or updated inside
// [from, to], both bounds inclusive, newest first by creation time
func (db *DB) ListTasksTouchedBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.Task, error) {
	lo, hi := sqlTime(from), sqlTime(to)
	return db.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		  AND ((created_at >= ? AND created_at <= ?) OR (updated_at >= ? AND updated_at <= ?))
		ORDER BY created_at DESC, id DESC
	`, userID, lo, hi, lo, hi)
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskText replaces a task's text and restamps updated_at
func (db *DB) UpdateTaskText(ctx context.Context, userID, id int64, text string, at time.Time) error {
	return db.execOne(ctx, id, `
		UPDATE tasks SET text = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, text, sqlTime(at), id, userID)
}

// UpdateTaskStatus sets a task's status and restamps updated_at, even when
// the status is unchanged
func (db *DB) UpdateTaskStatus(ctx context.Context, userID, id int64, status models.Status, at time.Time) error {
	return db.execOne(ctx, id, `
		UPDATE tasks SET status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, status, sqlTime(at), id, userID)
}

// DeleteTask permanently deletes a task
func (db *DB) DeleteTask(ctx context.Context, userID, id int64) error {
	return db.execOne(ctx, id, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
}

// execOne runs a statement expected to touch exactly one task row
func (db *DB) execOne(ctx context.Context, id int64, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}
