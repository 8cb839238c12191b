package google

import (
	"testing"
	"time"

	"hotelbooking/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBookingRowValues(t *testing.T) {
	booking := &models.Booking{
		ID:            123,
		CustomerID:    456,
		RoomID:        789,
		CheckIn:       time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC),
		TotalPrice:    240.5,
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentPaid,
		CreatedAt:     time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 12, 21, 11, 0, 0, 0, time.UTC),
	}

	expected := []interface{}{
		int64(123),
		int64(456),
		int64(789),
		"2024-12-25",
		"2024-12-27",
		240.5,
		"Confirmed",
		"Paid",
		"2024-12-20 10:00:00",
		"2024-12-21 11:00:00",
	}
	assert.Equal(t, expected, bookingRowValues(booking))
	assert.Len(t, headers, len(expected))
}

func TestCellID(t *testing.T) {
	assert.Equal(t, int64(12), cellID([]interface{}{float64(12)}))
	assert.Equal(t, int64(34), cellID([]interface{}{"34"}))
	assert.Equal(t, int64(0), cellID([]interface{}{"ID"}))
	assert.Equal(t, int64(0), cellID(nil))
}

func TestRowFromRange(t *testing.T) {
	assert.Equal(t, 10, rowFromRange("Bookings!A10:J10"))
	assert.Equal(t, 2, rowFromRange("'Bookings'!A2:J2"))
	assert.Equal(t, 0, rowFromRange("garbage"))
}

func TestCacheOperations(t *testing.T) {
	s := newSheetsService(nil, "id", nil)

	s.setCachedRow(1, 10)
	row, ok := s.getCachedRow(1)
	assert.True(t, ok)
	assert.Equal(t, 10, row)

	s.deleteCachedRow(1)
	_, ok = s.getCachedRow(1)
	assert.False(t, ok)
}
