package service

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"
)

// AvailabilityChecker decides whether a room is free for a stay. It has no side effects.
type AvailabilityChecker struct {
	repo domain.BookingRepository
}

func NewAvailabilityChecker(repo domain.BookingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// Conflicts returns the Confirmed bookings of roomID overlapping [checkIn, checkOut),
// ignoring excludeBookingID.
func (c *AvailabilityChecker) Conflicts(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) ([]*models.Booking, error) {
	candidates, err := c.repo.GetOverlappingBookings(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return nil, err
	}

	conflicts := make([]*models.Booking, 0, len(candidates))
	for _, b := range candidates {
		if b.ID == excludeBookingID || b.RoomID != roomID {
			continue
		}
		if b.Occupies(checkIn, checkOut) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

func (c *AvailabilityChecker) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	conflicts, err := c.Conflicts(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
