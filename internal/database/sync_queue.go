package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotelbooking/internal/models"
)

const syncTaskColumns = `id, task_type, booking_id, payload, status, retry_count, last_error, created_at, processed_at, next_retry_at`

func (db *DB) CreateSyncTask(ctx context.Context, task *models.SyncTask) error {
	if task.Status == "" {
		task.Status = models.SyncPending
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO sync_queue (task_type, booking_id, payload, status, retry_count, last_error, created_at, next_retry_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskType,
		task.BookingID,
		task.Payload,
		task.Status,
		task.RetryCount,
		task.LastError,
		now,
		nullableTime(task.NextRetryAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create sync task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	task.CreatedAt = now

	return nil
}

// GetPendingSyncTasks returns due pending and retry tasks, oldest first.
func (db *DB) GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+syncTaskColumns+` FROM sync_queue
		 WHERE status IN (?, ?) AND (next_retry_at IS NULL OR next_retry_at <= ?)
		 ORDER BY created_at ASC, id ASC LIMIT ?`,
		models.SyncPending, models.SyncRetry, time.Now().UTC(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending sync tasks: %w", err)
	}
	return scanSyncTasks(rows)
}

func (db *DB) UpdateSyncTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	var query string
	var args []interface{}
	now := time.Now().UTC()

	var lastError interface{}
	if errMsg != "" {
		lastError = errMsg
	}

	switch status {
	case models.SyncRetry:
		query = `UPDATE sync_queue SET status = ?, last_error = ?, next_retry_at = ?, retry_count = retry_count + 1 WHERE id = ?`
		args = []interface{}{status, lastError, nullableTime(nextRetryAt), id}
	case models.SyncCompleted, models.SyncFailed:
		query = `UPDATE sync_queue SET status = ?, last_error = ?, next_retry_at = NULL, processed_at = ? WHERE id = ?`
		args = []interface{}{status, lastError, now, id}
	default:
		query = `UPDATE sync_queue SET status = ?, last_error = ?, next_retry_at = ? WHERE id = ?`
		args = []interface{}{status, lastError, nullableTime(nextRetryAt), id}
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update sync task status: %w", err)
	}
	return nil
}

func (db *DB) GetFailedSyncTasks(ctx context.Context) ([]models.SyncTask, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+syncTaskColumns+` FROM sync_queue WHERE status = ? ORDER BY created_at DESC, id DESC`,
		models.SyncFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed sync tasks: %w", err)
	}
	return scanSyncTasks(rows)
}

// RequeueFailedSyncTasks moves failed tasks back to pending with a fresh retry budget.
func (db *DB) RequeueFailedSyncTasks(ctx context.Context) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE sync_queue SET status = ?, retry_count = 0, next_retry_at = NULL, processed_at = NULL WHERE status = ?`,
		models.SyncPending, models.SyncFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue sync tasks: %w", err)
	}
	return result.RowsAffected()
}

func scanSyncTasks(rows *sql.Rows) ([]models.SyncTask, error) {
	defer rows.Close()

	var tasks []models.SyncTask
	for rows.Next() {
		var t models.SyncTask
		err := rows.Scan(
			&t.ID, &t.TaskType, &t.BookingID, &t.Payload, &t.Status, &t.RetryCount, &t.LastError, &t.CreatedAt, &t.ProcessedAt, &t.NextRetryAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
