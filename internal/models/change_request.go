package models

import "time"

type ChangeRequest struct {
	ID                   int64      `json:"id"`
	BookingID            int64      `json:"bookingId"`
	CustomerID           int64      `json:"customerId"`
	Type                 string     `json:"type"` // Update, Cancel
	RequestedRoomID      *int64     `json:"requestedRoomId,omitempty"`
	RequestedCheckIn     *time.Time `json:"requestedCheckInDate,omitempty"`
	RequestedCheckOut    *time.Time `json:"requestedCheckOutDate,omitempty"`
	CancellationReason   *string    `json:"cancellationReason,omitempty"`
	Status               string     `json:"status"` // Pending, Approved, Disapproved
	ApprovedBy           *int64     `json:"approvedBy,omitempty"`
	ApprovedAt           *time.Time `json:"approvedAt,omitempty"`
	ReasonForDisapproval *string    `json:"reasonForDisapproval,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsPending reports whether the request still awaits a staff decision.
func (r *ChangeRequest) IsPending() bool {
	return r.Status == RequestPending
}
