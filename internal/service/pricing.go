package service

import (
	"math"
	"time"
)

const millisPerDay = float64(24 * time.Hour / time.Millisecond)

// Nights is the rounded number of days between two instants, in either order.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn).Milliseconds()
	if diff < 0 {
		diff = -diff
	}
	return int(math.Round(float64(diff) / millisPerDay))
}

// CalculatePrice is rate × Nights. Callers ensure checkOut is after checkIn.
func CalculatePrice(rate float64, checkIn, checkOut time.Time) float64 {
	return rate * float64(Nights(checkIn, checkOut))
}
