package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"
)

const changeRequestColumns = `id, booking_id, customer_id, type, requested_room_id, requested_check_in, requested_check_out,
	cancellation_reason, status, approved_by, approved_at, reason_for_disapproval, created_at, updated_at`

func scanChangeRequest(row rowScanner) (*models.ChangeRequest, error) {
	var r models.ChangeRequest
	err := row.Scan(
		&r.ID,
		&r.BookingID,
		&r.CustomerID,
		&r.Type,
		&r.RequestedRoomID,
		&r.RequestedCheckIn,
		&r.RequestedCheckOut,
		&r.CancellationReason,
		&r.Status,
		&r.ApprovedBy,
		&r.ApprovedAt,
		&r.ReasonForDisapproval,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	normalizeTime(r.RequestedCheckIn)
	normalizeTime(r.RequestedCheckOut)
	normalizeTime(r.ApprovedAt)
	return &r, nil
}

func (db *DB) GetChangeRequest(ctx context.Context, id int64) (*models.ChangeRequest, error) {
	r, err := scanChangeRequest(db.QueryRowContext(ctx, `SELECT `+changeRequestColumns+` FROM change_requests WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("change request %d", id))
	}
	return r, nil
}

// CreateChangeRequest stores a new Pending request. A second Pending request
// for the same booking violates idx_change_requests_one_pending and yields a Conflict.
func (db *DB) CreateChangeRequest(ctx context.Context, req *models.ChangeRequest) error {
	now := time.Now().UTC()
	if !req.CreatedAt.IsZero() {
		now = req.CreatedAt.UTC()
	}
	if req.Status == "" {
		req.Status = models.RequestPending
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO change_requests (
			booking_id, customer_id, type, requested_room_id, requested_check_in, requested_check_out,
			cancellation_reason, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.BookingID,
		req.CustomerID,
		req.Type,
		req.RequestedRoomID,
		nullableTime(req.RequestedCheckIn),
		nullableTime(req.RequestedCheckOut),
		req.CancellationReason,
		req.Status,
		now,
		now,
	)
	if err != nil {
		if kindErr := mapError(err, "pending change request"); domain.KindOf(kindErr) == domain.ErrConflict {
			return domain.Conflict("booking %d already has a pending change request", req.BookingID)
		}
		return fmt.Errorf("failed to create change request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

func (db *DB) DecideChangeRequest(ctx context.Context, req *models.ChangeRequest) error {
	now := time.Now().UTC()
	if err := decideChangeRequest(ctx, db, req, now); err != nil {
		if !errors.Is(err, errNotPending) {
			return err
		}
		if _, err := db.GetChangeRequest(ctx, req.ID); err != nil {
			return err
		}
		return domain.Conflict("change request %d has already been decided", req.ID)
	}
	req.UpdatedAt = now
	return nil
}

var errNotPending = errors.New("change request is not pending")

func decideChangeRequest(ctx context.Context, ex execer, req *models.ChangeRequest, at time.Time) error {
	result, err := ex.ExecContext(ctx,
		`UPDATE change_requests
		 SET status = ?, approved_by = ?, approved_at = ?, reason_for_disapproval = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		req.Status,
		req.ApprovedBy,
		nullableTime(req.ApprovedAt),
		req.ReasonForDisapproval,
		at,
		req.ID,
		models.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("failed to decide change request: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return errNotPending
	}
	return nil
}

// ApplyChangeRequest records an approval together with its effects in one
// transaction: the request decision (only while Pending), the rewritten
// booking and the refund-pending cancellation of every booking in cancelIDs.
// On any error nothing is written.
func (db *DB) ApplyChangeRequest(ctx context.Context, req *models.ChangeRequest, booking *models.Booking, cancelIDs []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	if err := decideChangeRequest(ctx, tx, req, now); err != nil {
		if errors.Is(err, errNotPending) {
			if _, err := scanChangeRequest(tx.QueryRowContext(ctx, `SELECT `+changeRequestColumns+` FROM change_requests WHERE id = ?`, req.ID)); err != nil {
				return mapError(err, fmt.Sprintf("change request %d", req.ID))
			}
			return domain.Conflict("change request %d has already been decided", req.ID)
		}
		return err
	}

	if err := updateBooking(ctx, tx, booking, now); err != nil {
		return fmt.Errorf("apply change request %d: %w", req.ID, err)
	}

	for _, id := range cancelIDs {
		if err := updateBookingStatus(ctx, tx, id, models.StatusCancelled, models.PaymentRefundPending, now); err != nil {
			return fmt.Errorf("cascade cancel booking %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit change request %d: %w", req.ID, err)
	}
	req.UpdatedAt = now
	return nil
}

func (db *DB) HasPendingChangeRequest(ctx context.Context, bookingID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM change_requests WHERE booking_id = ? AND status = ?`,
		bookingID, models.RequestPending,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending change requests: %w", err)
	}
	return count > 0, nil
}

func (db *DB) ListChangeRequests(ctx context.Context, filter models.ChangeRequestFilter) ([]*models.ChangeRequest, int, error) {
	var where []string
	var args []any

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.CustomerID > 0 {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.BookingID > 0 {
		where = append(where, "booking_id = ?")
		args = append(args, filter.BookingID)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM change_requests`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count change requests: %w", err)
	}

	page := filter.Pagination.Normalize(0, 0)
	rows, err := db.QueryContext(ctx,
		`SELECT `+changeRequestColumns+` FROM change_requests`+whereSQL+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.PageSize, page.Offset())...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list change requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ChangeRequest
	for rows.Next() {
		r, err := scanChangeRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan change request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
