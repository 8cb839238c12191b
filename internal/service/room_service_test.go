package service

import (
	"context"
	"testing"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomService(f *fixture) *RoomService {
	logger := zerolog.Nop()
	s := NewRoomService(f.db, config.BookingConfig{}, &logger)
	s.now = f.clock.Now
	return s
}

func suiteInput(number string) models.RoomInput {
	return models.RoomInput{RoomNumber: number, Type: models.RoomSuite, Price: 250, Capacity: 4, Description: "sea view"}
}

func TestRoomService_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	s := newRoomService(f)
	ctx := context.Background()

	_, err := s.CreateRoom(ctx, customerA, suiteInput("301"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	room, err := s.CreateRoom(ctx, manager, suiteInput(" 301 "))
	require.NoError(t, err)
	assert.Equal(t, "301", room.RoomNumber)
	assert.Equal(t, []string{}, room.Images)

	_, err = s.CreateRoom(ctx, admin, suiteInput("301"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	in := suiteInput("301")
	in.Price = 300
	in.Images = []string{"a.jpg"}
	updated, err := s.UpdateRoom(ctx, admin, room.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.Price)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, got.Images)

	_, err = s.UpdateRoom(ctx, admin, 999, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomService_Validation(t *testing.T) {
	f := newFixture(t)
	s := newRoomService(f)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *models.RoomInput)
	}{
		{"empty number", func(in *models.RoomInput) { in.RoomNumber = " " }},
		{"unknown type", func(in *models.RoomInput) { in.Type = "Penthouse" }},
		{"zero price", func(in *models.RoomInput) { in.Price = 0 }},
		{"negative capacity", func(in *models.RoomInput) { in.Capacity = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := suiteInput("401")
			tt.mutate(&in)
			_, err := s.CreateRoom(ctx, manager, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRoomService_BookedTime(t *testing.T) {
	f := newFixture(t)
	s := newRoomService(f)
	ctx := context.Background()

	room := f.room(t, "101", 100)
	c := f.customer(t, "alice")
	b := f.book(t, asCustomer(c), 0, room.ID, "2024-01-10", "2024-01-12")
	cancelled := f.book(t, asCustomer(c), 0, room.ID, "2024-01-20", "2024-01-22")
	require.NoError(t, f.db.UpdateBookingStatus(ctx, cancelled.ID, models.StatusCancelled, models.PaymentCancelled))

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, got.BookedTime, 1)
	assert.Equal(t, b.ID, got.BookedTime[0].BookingID)

	page, err := s.ListRooms(ctx, models.RoomFilter{Type: models.RoomStandard})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].BookedTime, 1)

	_, err = s.ListRooms(ctx, models.RoomFilter{Type: "Loft"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRoomService_DeleteKeepsBookings(t *testing.T) {
	f := newFixture(t)
	s := newRoomService(f)
	ctx := context.Background()

	room := f.room(t, "101", 100)
	c := f.customer(t, "alice")
	b := f.book(t, asCustomer(c), 0, room.ID, "2024-01-10", "2024-01-12")

	require.NoError(t, s.DeleteRoom(ctx, manager, room.ID))
	assert.ErrorIs(t, s.DeleteRoom(ctx, manager, room.ID), domain.ErrNotFound)

	_, err := f.db.GetBooking(ctx, b.ID)
	assert.NoError(t, err)
}
