package models

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customerId"`
	RoomID        int64     `json:"roomId"`
	CheckIn       time.Time `json:"checkInDate"`
	CheckOut      time.Time `json:"checkOutDate"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status"`        // Confirmed, Cancelled, CheckedIn, Completed
	PaymentStatus string    `json:"paymentStatus"` // Unpaid, Paid, Cancelled, RefundPending
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Overlaps reports whether the half-open stays [aIn, aOut) and [bIn, bOut) share a night.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Occupies reports whether the booking holds its room for any part of [checkIn, checkOut).
func (b *Booking) Occupies(checkIn, checkOut time.Time) bool {
	return b.Status == StatusConfirmed && Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut)
}

var statusTransitions = map[string][]string{
	StatusConfirmed: {StatusCancelled, StatusCheckedIn},
	StatusCheckedIn: {StatusCompleted},
}

// StatusTransitionAllowed reports whether a booking may move from one lifecycle status to another.
// Leaving the status unchanged is always allowed.
func StatusTransitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookedInterval is the public view of a confirmed stay shown on a room.
type BookedInterval struct {
	BookingID int64     `json:"bookingId"`
	CheckIn   time.Time `json:"checkInDate"`
	CheckOut  time.Time `json:"checkOutDate"`
}

// PaymentTransitionAllowed reports whether the payment tracker may move a
// booking's payment status. Only Unpaid -> Paid is a customer-facing move;
// cancellation and refunds are driven by booking status changes.
func PaymentTransitionAllowed(from, to string) bool {
	return from == PaymentUnpaid && to == PaymentPaid
}
