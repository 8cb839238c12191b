package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRoom(number string) *models.Room {
	return &models.Room{
		RoomNumber:  number,
		Type:        models.RoomStandard,
		Price:       100,
		Capacity:    2,
		Description: "Room " + number,
		Images:      []string{"a.jpg"},
	}
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func createTestBooking(t *testing.T, db *DB, roomID int64, in, out, status string) *models.Booking {
	t.Helper()
	b := &models.Booking{
		CustomerID:    1,
		RoomID:        roomID,
		CheckIn:       day(in),
		CheckOut:      day(out),
		TotalPrice:    100,
		Status:        status,
		PaymentStatus: models.PaymentUnpaid,
	}
	require.NoError(t, db.CreateBooking(context.Background(), b))
	return b
}

func TestNewDB_FileAndReopen(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "nested", "hotel.db")

	db, err := NewDB(path, &logger)
	require.NoError(t, err)
	require.NoError(t, db.CreateRoom(context.Background(), newTestRoom("1")))
	require.NoError(t, db.Close())

	// повторные миграции не должны ломать существующую схему
	db, err = NewDBWithMigrationTable(path, "", &logger)
	require.NoError(t, err)
	defer db.Close()

	_, total, err := db.ListRooms(context.Background(), models.RoomFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, path, db.Path())
}

func TestBookingCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	b := createTestBooking(t, db, 1, "2024-01-10", "2024-01-12", models.StatusConfirmed)
	require.NotZero(t, b.ID)

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckIn.Equal(day("2024-01-10")))
	assert.Equal(t, time.UTC, got.CheckIn.Location())
	assert.Equal(t, models.PaymentUnpaid, got.PaymentStatus)

	got.TotalPrice = 250
	got.CheckOut = day("2024-01-13")
	require.NoError(t, db.UpdateBooking(ctx, got))

	got, err = db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.TotalPrice)
	assert.True(t, got.CheckOut.Equal(day("2024-01-13")))

	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCancelled, models.PaymentRefundPending))
	got, err = db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, models.PaymentRefundPending, got.PaymentStatus)

	require.NoError(t, db.DeleteBooking(ctx, b.ID))
	_, err = db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, db.DeleteBooking(ctx, b.ID), domain.ErrNotFound)
	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, 999, models.StatusCancelled, models.PaymentCancelled), domain.ErrNotFound)
}

func TestGetOverlappingBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := createTestBooking(t, db, 1, "2024-01-10", "2024-01-12", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-01-12", "2024-01-14", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-01-11", "2024-01-13", models.StatusCancelled)
	createTestBooking(t, db, 2, "2024-01-10", "2024-01-12", models.StatusConfirmed)

	tests := []struct {
		name      string
		in, out   string
		exclude   int64
		wantCount int
	}{
		{name: "back to back before", in: "2024-01-08", out: "2024-01-10", wantCount: 0},
		{name: "inside first", in: "2024-01-10", out: "2024-01-11", wantCount: 1},
		{name: "spans both", in: "2024-01-09", out: "2024-01-15", wantCount: 2},
		{name: "self excluded", in: "2024-01-10", out: "2024-01-12", exclude: a.ID, wantCount: 0},
		{name: "after everything", in: "2024-01-14", out: "2024-01-16", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetOverlappingBookings(ctx, 1, day(tt.in), day(tt.out), tt.exclude)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
			for _, b := range got {
				assert.Equal(t, models.StatusConfirmed, b.Status)
				assert.Equal(t, int64(1), b.RoomID)
			}
		})
	}
}

func TestListBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestBooking(t, db, 1, "2024-01-10", "2024-01-12", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-02-10", "2024-02-12", models.StatusCancelled)
	other := &models.Booking{
		CustomerID: 2, RoomID: 2, CheckIn: day("2024-03-01"), CheckOut: day("2024-03-05"),
		TotalPrice: 400, Status: models.StatusConfirmed, PaymentStatus: models.PaymentPaid,
	}
	require.NoError(t, db.CreateBooking(ctx, other))

	t.Run("by customer", func(t *testing.T) {
		items, total, err := db.ListBookings(ctx, models.BookingFilter{CustomerID: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
	})

	t.Run("by status and payment", func(t *testing.T) {
		items, total, err := db.ListBookings(ctx, models.BookingFilter{Status: models.StatusConfirmed, PaymentStatus: models.PaymentPaid})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, other.ID, items[0].ID)
	})

	t.Run("date window", func(t *testing.T) {
		from, to := day("2024-02-01"), day("2024-03-31")
		_, total, err := db.ListBookings(ctx, models.BookingFilter{CheckInFrom: &from, CheckOutTo: &to})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("sort and page", func(t *testing.T) {
		items, total, err := db.ListBookings(ctx, models.BookingFilter{
			Sort:       "-totalPrice,checkIn",
			Pagination: models.Pagination{Page: 1, PageSize: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, items, 1)
		assert.Equal(t, other.ID, items[0].ID)
	})

	t.Run("bad sort", func(t *testing.T) {
		_, _, err := db.ListBookings(ctx, models.BookingFilter{Sort: "password"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBuildOrderBy(t *testing.T) {
	got, err := buildOrderBy("", bookingSortColumns, "-createdAt")
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY created_at DESC, id ASC", got)

	got, err = buildOrderBy("checkIn, -totalPrice", bookingSortColumns, "-createdAt")
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY check_in ASC, total_price DESC, id ASC", got)

	_, err = buildOrderBy("id; DROP TABLE bookings", bookingSortColumns, "-createdAt")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetBookingsByCheckInRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestBooking(t, db, 1, "2024-01-01", "2024-01-02", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-01-31", "2024-02-02", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-02-01", "2024-02-03", models.StatusConfirmed)

	got, err := db.GetBookingsByCheckInRange(ctx, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := db.AllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID, all[2].ID)
}

func TestRoomCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := newTestRoom("101")
	require.NoError(t, db.CreateRoom(ctx, room))

	err := db.CreateRoom(ctx, newTestRoom("101"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, got.Images)

	got.Price = 180
	got.Type = models.RoomSuite
	got.Images = nil
	require.NoError(t, db.UpdateRoom(ctx, got))

	got, err = db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 180.0, got.Price)
	assert.Equal(t, []string{}, got.Images)

	require.NoError(t, db.DeleteRoom(ctx, room.ID))
	_, err = db.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListRooms(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	small := newTestRoom("101")
	big := newTestRoom("201")
	big.Type = models.RoomSuite
	big.Capacity = 4
	big.Description = "Sea view 100%"
	require.NoError(t, db.CreateRoom(ctx, small))
	require.NoError(t, db.CreateRoom(ctx, big))

	rooms, total, err := db.ListRooms(ctx, models.RoomFilter{CapacityGte: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "201", rooms[0].RoomNumber)

	_, total, err = db.ListRooms(ctx, models.RoomFilter{Type: models.RoomStandard})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	rooms, _, err = db.ListRooms(ctx, models.RoomFilter{Query: "100%"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, big.ID, rooms[0].ID)
}

func TestGetRoomBookedIntervals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestBooking(t, db, 1, "2024-01-01", "2024-01-03", models.StatusConfirmed)
	current := createTestBooking(t, db, 1, "2024-01-09", "2024-01-12", models.StatusConfirmed)
	createTestBooking(t, db, 1, "2024-01-15", "2024-01-16", models.StatusCancelled)

	got, err := db.GetRoomBookedIntervals(ctx, 1, day("2024-01-10"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, current.ID, got[0].BookingID)

	got, err = db.GetRoomBookedIntervals(ctx, 42, day("2024-01-10"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCustomerAndEmployee(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c := &models.Customer{FullName: "Ann Lee", Email: "ann@example.com", PasswordHash: "h"}
	require.NoError(t, db.CreateCustomer(ctx, c))

	err := db.CreateCustomer(ctx, &models.Customer{FullName: "Dup", Email: "ANN@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byEmail, err := db.GetCustomerByEmail(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	c.Phone = "555"
	require.NoError(t, db.UpdateCustomer(ctx, c))
	list, total, err := db.ListCustomers(ctx, models.CustomerFilter{Query: "555"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "555", list[0].Phone)

	require.NoError(t, db.DeleteCustomer(ctx, c.ID))
	_, err = db.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	e := &models.Employee{FullName: "Boss", Role: models.RoleAdmin, Email: "admin@admin.com", PasswordHash: "h"}
	require.NoError(t, db.CreateEmployee(ctx, e))
	assert.ErrorIs(t, db.CreateEmployee(ctx, &models.Employee{FullName: "x", Role: models.RoleManager, Email: "admin@admin.com", PasswordHash: "h"}), domain.ErrConflict)

	got, err := db.GetEmployeeByEmail(ctx, "admin@admin.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	employees, err := db.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)

	_, err = db.GetEmployee(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeUpdateDeleteAndPasswords(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	boss := &models.Employee{FullName: "Boss", Role: models.RoleManager, Email: "boss@hotel.com", PasswordHash: "h"}
	require.NoError(t, db.CreateEmployee(ctx, boss))
	desk := &models.Employee{FullName: "Desk", Role: models.RoleAdmin, Email: "desk@hotel.com", PasswordHash: "h"}
	require.NoError(t, db.CreateEmployee(ctx, desk))

	desk.FullName = "Front Desk"
	desk.Role = models.RoleManager
	desk.Phone = "100"
	desk.PasswordHash = "ignored"
	require.NoError(t, db.UpdateEmployee(ctx, desk))

	got, err := db.GetEmployee(ctx, desk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", got.FullName)
	assert.Equal(t, models.RoleManager, got.Role)
	assert.Equal(t, "h", got.PasswordHash)

	desk.Email = "BOSS@hotel.com"
	assert.ErrorIs(t, db.UpdateEmployee(ctx, desk), domain.ErrConflict)
	assert.ErrorIs(t, db.UpdateEmployee(ctx, &models.Employee{ID: 99, FullName: "x", Role: models.RoleAdmin, Email: "x@hotel.com"}), domain.ErrNotFound)

	require.NoError(t, db.UpdateEmployeePassword(ctx, boss.ID, "new-hash"))
	got, err = db.GetEmployee(ctx, boss.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.ErrorIs(t, db.UpdateEmployeePassword(ctx, 99, "x"), domain.ErrNotFound)

	c := &models.Customer{FullName: "Ann", Email: "ann@example.com", PasswordHash: "h"}
	require.NoError(t, db.CreateCustomer(ctx, c))
	require.NoError(t, db.UpdateCustomerPassword(ctx, c.ID, "c-hash"))
	gotCustomer, err := db.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "c-hash", gotCustomer.PasswordHash)
	assert.ErrorIs(t, db.UpdateCustomerPassword(ctx, 99, "x"), domain.ErrNotFound)

	require.NoError(t, db.DeleteEmployee(ctx, desk.ID))
	_, err = db.GetEmployee(ctx, desk.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, db.DeleteEmployee(ctx, desk.ID), domain.ErrNotFound)
}

func TestChangeRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	roomID := int64(3)
	in, out := day("2024-05-01"), day("2024-05-04")
	req := &models.ChangeRequest{
		BookingID:         10,
		CustomerID:        1,
		Type:              models.ChangeTypeUpdate,
		RequestedRoomID:   &roomID,
		RequestedCheckIn:  &in,
		RequestedCheckOut: &out,
	}
	require.NoError(t, db.CreateChangeRequest(ctx, req))
	assert.Equal(t, models.RequestPending, req.Status)

	pending, err := db.HasPendingChangeRequest(ctx, 10)
	require.NoError(t, err)
	assert.True(t, pending)

	// второй Pending на ту же бронь запрещён индексом
	reason := "changed plans"
	err = db.CreateChangeRequest(ctx, &models.ChangeRequest{BookingID: 10, CustomerID: 1, Type: models.ChangeTypeCancel, CancellationReason: &reason})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := db.GetChangeRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RequestedRoomID)
	assert.Equal(t, roomID, *got.RequestedRoomID)
	assert.True(t, got.RequestedCheckIn.Equal(in))
	assert.Nil(t, got.CancellationReason)
	assert.Nil(t, got.ApprovedBy)

	staff := int64(7)
	now := time.Now().UTC()
	got.Status = models.RequestApproved
	got.ApprovedBy = &staff
	got.ApprovedAt = &now
	require.NoError(t, db.DecideChangeRequest(ctx, got))

	again := *got
	again.Status = models.RequestDisapproved
	assert.ErrorIs(t, db.DecideChangeRequest(ctx, &again), domain.ErrConflict)

	missing := &models.ChangeRequest{ID: 999, Status: models.RequestApproved}
	assert.ErrorIs(t, db.DecideChangeRequest(ctx, missing), domain.ErrNotFound)

	decided, err := db.GetChangeRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, decided.Status)
	assert.Equal(t, staff, *decided.ApprovedBy)

	pending, err = db.HasPendingChangeRequest(ctx, 10)
	require.NoError(t, err)
	assert.False(t, pending)

	// после решения можно подать новый запрос
	require.NoError(t, db.CreateChangeRequest(ctx, &models.ChangeRequest{BookingID: 10, CustomerID: 1, Type: models.ChangeTypeCancel, CancellationReason: &reason}))

	list, total, err := db.ListChangeRequests(ctx, models.ChangeRequestFilter{BookingID: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, models.ChangeTypeCancel, list[0].Type)

	_, total, err = db.ListChangeRequests(ctx, models.ChangeRequestFilter{Status: models.RequestPending, CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestConcurrentPendingRequests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.CreateChangeRequest(ctx, &models.ChangeRequest{BookingID: 1, CustomerID: 1, Type: models.ChangeTypeCancel})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok)
}

func newPendingMove(t *testing.T, db *DB, b *models.Booking, roomID int64, in, out string) *models.ChangeRequest {
	t.Helper()
	checkIn, checkOut := day(in), day(out)
	req := &models.ChangeRequest{
		BookingID:         b.ID,
		CustomerID:        b.CustomerID,
		Type:              models.ChangeTypeUpdate,
		RequestedRoomID:   &roomID,
		RequestedCheckIn:  &checkIn,
		RequestedCheckOut: &checkOut,
	}
	require.NoError(t, db.CreateChangeRequest(context.Background(), req))
	return req
}

func approvedBy(req *models.ChangeRequest, staff int64) *models.ChangeRequest {
	now := time.Now().UTC()
	decided := *req
	decided.Status = models.RequestApproved
	decided.ApprovedBy = &staff
	decided.ApprovedAt = &now
	return &decided
}

func TestApplyChangeRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := createTestBooking(t, db, 1, "2024-05-01", "2024-05-04", models.StatusConfirmed)
	victim := createTestBooking(t, db, 2, "2024-05-02", "2024-05-03", models.StatusConfirmed)
	req := newPendingMove(t, db, a, 2, "2024-05-01", "2024-05-04")

	moved := *a
	moved.RoomID = 2
	moved.TotalPrice = 300
	require.NoError(t, db.ApplyChangeRequest(ctx, approvedBy(req, 7), &moved, []int64{victim.ID}))

	got, err := db.GetBooking(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RoomID)
	assert.Equal(t, 300.0, got.TotalPrice)

	cancelled, err := db.GetBooking(ctx, victim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefundPending, cancelled.PaymentStatus)

	decided, err := db.GetChangeRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, decided.Status)

	// повторное применение не проходит и ничего не пишет
	again := *a
	again.RoomID = 3
	assert.ErrorIs(t, db.ApplyChangeRequest(ctx, approvedBy(req, 7), &again, nil), domain.ErrConflict)
	got, err = db.GetBooking(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RoomID)

	missing := &models.ChangeRequest{ID: 999}
	assert.ErrorIs(t, db.ApplyChangeRequest(ctx, approvedBy(missing, 7), &again, nil), domain.ErrNotFound)
}

func TestApplyChangeRequest_RollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := createTestBooking(t, db, 1, "2024-05-01", "2024-05-04", models.StatusConfirmed)
	victim := createTestBooking(t, db, 2, "2024-05-02", "2024-05-03", models.StatusConfirmed)

	t.Run("cascade write fails", func(t *testing.T) {
		req := newPendingMove(t, db, a, 2, "2024-05-01", "2024-05-04")
		moved := *a
		moved.RoomID = 2

		err := db.ApplyChangeRequest(ctx, approvedBy(req, 7), &moved, []int64{victim.ID, 404})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		stored, err := db.GetChangeRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, stored.Status)
		assert.Nil(t, stored.ApprovedBy)

		got, err := db.GetBooking(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.RoomID)

		untouched, err := db.GetBooking(ctx, victim.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, untouched.Status)
		assert.Equal(t, models.PaymentUnpaid, untouched.PaymentStatus)

		stored.Status = models.RequestDisapproved
		require.NoError(t, db.DecideChangeRequest(ctx, stored))
	})

	t.Run("booking write fails", func(t *testing.T) {
		req := newPendingMove(t, db, a, 2, "2024-05-01", "2024-05-04")
		ghost := *a
		ghost.ID = 404

		err := db.ApplyChangeRequest(ctx, approvedBy(req, 7), &ghost, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		stored, err := db.GetChangeRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, stored.Status)
	})
}
