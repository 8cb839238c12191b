package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"
)

const bookingColumns = `id, customer_id, room_id, check_in, check_out, total_price, status, payment_status, created_at, updated_at`

var bookingSortColumns = map[string]string{
	"createdAt":  "created_at",
	"checkIn":    "check_in",
	"checkOut":   "check_out",
	"totalPrice": "total_price",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.RoomID,
		&b.CheckIn,
		&b.CheckOut,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("booking %d", id))
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				customer_id, room_id, check_in, check_out, total_price,
				status, payment_status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if !booking.CreatedAt.IsZero() {
		now = booking.CreatedAt.UTC()
	}
	result, err := db.ExecContext(ctx, query,
		booking.CustomerID,
		booking.RoomID,
		utc(booking.CheckIn),
		utc(booking.CheckOut),
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.CheckIn = utc(booking.CheckIn)
	booking.CheckOut = utc(booking.CheckOut)
	return nil
}

// UpdateBooking rewrites every mutable column of an existing booking.
func (db *DB) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	return updateBooking(ctx, db, booking, time.Now().UTC())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateBooking(ctx context.Context, ex execer, booking *models.Booking, now time.Time) error {
	query := `UPDATE bookings SET customer_id = ?, room_id = ?, check_in = ?, check_out = ?,
	              total_price = ?, status = ?, payment_status = ?, updated_at = ?
	          WHERE id = ?`

	result, err := ex.ExecContext(ctx, query,
		booking.CustomerID,
		booking.RoomID,
		utc(booking.CheckIn),
		utc(booking.CheckOut),
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		now,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if err := expectOneRow(result, "booking", booking.ID); err != nil {
		return err
	}
	booking.UpdatedAt = now
	return nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status, paymentStatus string) error {
	return updateBookingStatus(ctx, db, id, status, paymentStatus, time.Now().UTC())
}

func updateBookingStatus(ctx context.Context, ex execer, id int64, status, paymentStatus string, at time.Time) error {
	query := `UPDATE bookings SET status = ?, payment_status = ?, updated_at = ? WHERE id = ?`
	result, err := ex.ExecContext(ctx, query, status, paymentStatus, at, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return expectOneRow(result, "booking", id)
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return expectOneRow(result, "booking", id)
}

// GetOverlappingBookings returns the Confirmed bookings of roomID whose stay
// intersects [checkIn, checkOut), ignoring excludeID.
func (db *DB) GetOverlappingBookings(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE room_id = ? AND status = ? AND id != ?
	            AND check_in < ? AND check_out > ?
	          ORDER BY check_in, id`

	rows, err := db.QueryContext(ctx, query, roomID, models.StatusConfirmed, excludeID, utc(checkOut), utc(checkIn))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	return scanBookings(rows)
}

// GetBookingsByCheckInRange returns bookings with start <= check_in <= end.
func (db *DB) GetBookingsByCheckInRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE check_in >= ? AND check_in <= ?
	          ORDER BY check_in, id`

	rows, err := db.QueryContext(ctx, query, utc(start), utc(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by range: %w", err)
	}
	return scanBookings(rows)
}

// AllBookings returns every booking ordered by id, for a full Sheets resync.
func (db *DB) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return scanBookings(rows)
}

func (db *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, int, error) {
	var where []string
	var args []any

	if filter.CustomerID > 0 {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.RoomID > 0 {
		where = append(where, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.CheckInFrom != nil {
		where = append(where, "check_in >= ?")
		args = append(args, filter.CheckInFrom.UTC())
	}
	if filter.CheckOutTo != nil {
		where = append(where, "check_out <= ?")
		args = append(args, filter.CheckOutTo.UTC())
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		where = append(where, "payment_status = ?")
		args = append(args, filter.PaymentStatus)
	}

	orderBy, err := buildOrderBy(filter.Sort, bookingSortColumns, "-createdAt")
	if err != nil {
		return nil, 0, err
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	page := filter.Pagination.Normalize(0, 0)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + whereSQL + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, append(args, page.PageSize, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// buildOrderBy turns "-checkIn,totalPrice" into an ORDER BY clause over whitelisted columns.
func buildOrderBy(sort string, columns map[string]string, fallback string) (string, error) {
	if strings.TrimSpace(sort) == "" {
		sort = fallback
	}

	var parts []string
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := columns[field]
		if !ok {
			return "", domain.Validation("cannot sort by %q", field)
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func expectOneRow(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound("%s %d not found", what, id)
	}
	return nil
}
