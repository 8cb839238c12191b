package models

import "time"

type Room struct {
	ID          int64     `json:"id"`
	RoomNumber  string    `json:"roomNumber"`
	Type        string    `json:"type"` // Standard, Deluxe, Suite
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoomWithBookings is a room together with the stays currently holding it.
type RoomWithBookings struct {
	Room
	BookedTime []BookedInterval `json:"bookedTime"`
}
