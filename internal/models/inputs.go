package models

// CreateBookingInput is the body of a booking creation call. Dates are calendar dates or RFC 3339.
type CreateBookingInput struct {
	CustomerID int64  `json:"customerId"`
	RoomID     int64  `json:"roomId"`
	CheckIn    string `json:"checkInDate"`
	CheckOut   string `json:"checkOutDate"`
}

// BookingPatch is a staff partial update; only fields present in the request are applied.
type BookingPatch struct {
	CustomerID    Optional[int64]   `json:"customerId"`
	RoomID        Optional[int64]   `json:"roomId"`
	CheckIn       Optional[string]  `json:"checkInDate"`
	CheckOut      Optional[string]  `json:"checkOutDate"`
	TotalPrice    Optional[float64] `json:"totalPrice"`
	Status        Optional[string]  `json:"status"`
	PaymentStatus Optional[string]  `json:"paymentStatus"`
}

// UpdateRequestInput is a customer's proposal of a new room and dates for a booking.
type UpdateRequestInput struct {
	RoomID   int64  `json:"requestedRoomId"`
	CheckIn  string `json:"requestedCheckInDate"`
	CheckOut string `json:"requestedCheckOutDate"`
}

type RoomInput struct {
	RoomNumber  string   `json:"roomNumber"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type SignupInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerPatch struct {
	FullName Optional[string] `json:"fullName"`
	Phone    Optional[string] `json:"phone"`
	Address  Optional[string] `json:"address"`
}

type EmployeeInput struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// EmployeePatch edits an employee. Absent fields keep their stored values.
type EmployeePatch struct {
	FullName Optional[string] `json:"fullName"`
	Role     Optional[string] `json:"role"`
	Email    Optional[string] `json:"email"`
	Phone    Optional[string] `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Actor     Actor  `json:"user"`
}
