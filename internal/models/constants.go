package models

const (
	RoleCustomer = "Customer"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)

const (
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
	StatusCheckedIn = "CheckedIn"
	StatusCompleted = "Completed"
)

const (
	PaymentUnpaid        = "Unpaid"
	PaymentPaid          = "Paid"
	PaymentCancelled     = "Cancelled"
	PaymentRefundPending = "RefundPending"
)

const (
	ChangeTypeUpdate = "Update"
	ChangeTypeCancel = "Cancel"
)

const (
	RequestPending     = "Pending"
	RequestApproved    = "Approved"
	RequestDisapproved = "Disapproved"
)

const (
	RoomStandard = "Standard"
	RoomDeluxe   = "Deluxe"
	RoomSuite    = "Suite"
)

const (
	// DateLayout is the calendar-date form accepted by every date field.
	DateLayout = "2006-01-02"

	// DefaultReason is stored when a cancellation or disapproval carries no reason.
	DefaultReason = "No reason provided"

	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 20

	// MaxPageSize верхняя граница размера страницы
	MaxPageSize = 100

	// DefaultMaxAdvanceDays горизонт бронирования в днях
	DefaultMaxAdvanceDays = 365

	// DefaultLockTTL время жизни блокировки комнаты в секундах
	DefaultLockTTL = 10

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128

	// SheetsCacheTTL время жизни кэша строк Google Sheets
	SheetsCacheTTL = 60 * 60 // 1 час в секундах
)

func IsStaffRole(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleCustomer || IsStaffRole(role)
}

func ValidBookingStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusCancelled, StatusCheckedIn, StatusCompleted:
		return true
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentUnpaid, PaymentPaid, PaymentCancelled, PaymentRefundPending:
		return true
	}
	return false
}

func ValidRoomType(t string) bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	}
	return false
}
