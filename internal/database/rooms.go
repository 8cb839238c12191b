package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/models"
)

const roomColumns = `id, room_number, type, price, capacity, description, images, created_at, updated_at`

func scanRoom(row rowScanner) (*models.Room, error) {
	var r models.Room
	var images string
	err := row.Scan(
		&r.ID,
		&r.RoomNumber,
		&r.Type,
		&r.Price,
		&r.Capacity,
		&r.Description,
		&images,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if images != "" {
		if err := json.Unmarshal([]byte(images), &r.Images); err != nil {
			return nil, fmt.Errorf("failed to decode room images: %w", err)
		}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	return &r, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode room images: %w", err)
	}
	return string(raw), nil
}

func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	r, err := scanRoom(db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("room %d", id))
	}
	return r, nil
}

func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	images, err := encodeImages(room.Images)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO rooms (room_number, type, price, capacity, description, images, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.RoomNumber, room.Type, room.Price, room.Capacity, room.Description, images, now, now,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to create room: %w", err), fmt.Sprintf("room number %s", room.RoomNumber))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	room.ID = id
	room.CreatedAt = now
	room.UpdatedAt = now
	return nil
}

func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	images, err := encodeImages(room.Images)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET room_number = ?, type = ?, price = ?, capacity = ?, description = ?, images = ?, updated_at = ?
		 WHERE id = ?`,
		room.RoomNumber, room.Type, room.Price, room.Capacity, room.Description, images, now, room.ID,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to update room: %w", err), fmt.Sprintf("room number %s", room.RoomNumber))
	}
	if err := expectOneRow(result, "room", room.ID); err != nil {
		return err
	}
	room.UpdatedAt = now
	return nil
}

func (db *DB) DeleteRoom(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return expectOneRow(result, "room", id)
}

func (db *DB) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, int, error) {
	var where []string
	var args []any

	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.CapacityGte > 0 {
		where = append(where, "capacity >= ?")
		args = append(args, filter.CapacityGte)
	}
	if strings.TrimSpace(filter.Query) != "" {
		where = append(where, `(room_number LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR type LIKE ? ESCAPE '\')`)
		p := likePattern(filter.Query)
		args = append(args, p, p, p)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	page := filter.Pagination.Normalize(0, 0)
	rows, err := db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms`+whereSQL+` ORDER BY room_number, id LIMIT ? OFFSET ?`,
		append(args, page.PageSize, page.Offset())...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rooms: %w", err)
	}
	rooms, err := scanRooms(rows)
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func scanRooms(rows *sql.Rows) ([]*models.Room, error) {
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

// GetRoomBookedIntervals lists the Confirmed stays of a room that end after from.
func (db *DB) GetRoomBookedIntervals(ctx context.Context, roomID int64, from time.Time) ([]models.BookedInterval, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, check_in, check_out FROM bookings
		 WHERE room_id = ? AND status = ? AND check_out > ?
		 ORDER BY check_in, id`,
		roomID, models.StatusConfirmed, utc(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked intervals: %w", err)
	}
	defer rows.Close()

	intervals := []models.BookedInterval{}
	for rows.Next() {
		var iv models.BookedInterval
		if err := rows.Scan(&iv.BookingID, &iv.CheckIn, &iv.CheckOut); err != nil {
			return nil, fmt.Errorf("failed to scan booked interval: %w", err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}
