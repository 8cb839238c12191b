package domain

import (
	"context"
	"time"

	"hotelbooking/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type BookingRepository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, status, paymentStatus string) error
	DeleteBooking(ctx context.Context, id int64) error
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, int, error)
	GetOverlappingBookings(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) ([]*models.Booking, error)
	GetBookingsByCheckInRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

type RoomRepository interface {
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64) error
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, int, error)
	GetRoomBookedIntervals(ctx context.Context, roomID int64, from time.Time) ([]models.BookedInterval, error)
}

type CustomerRepository interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int, error)
	UpdateCustomerPassword(ctx context.Context, id int64, passwordHash string) error
}

type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	UpdateEmployeePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteEmployee(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context) ([]*models.Employee, error)
}

type ChangeRequestRepository interface {
	GetChangeRequest(ctx context.Context, id int64) (*models.ChangeRequest, error)
	CreateChangeRequest(ctx context.Context, req *models.ChangeRequest) error
	// DecideChangeRequest persists a decision only while the request is still Pending.
	DecideChangeRequest(ctx context.Context, req *models.ChangeRequest) error
	// ApplyChangeRequest atomically approves req, rewrites booking and cancels
	// the bookings in cancelIDs with a pending refund.
	ApplyChangeRequest(ctx context.Context, req *models.ChangeRequest, booking *models.Booking, cancelIDs []int64) error
	HasPendingChangeRequest(ctx context.Context, bookingID int64) (bool, error)
	ListChangeRequests(ctx context.Context, filter models.ChangeRequestFilter) ([]*models.ChangeRequest, int, error)
}

type Repository interface {
	BookingRepository
	RoomRepository
	CustomerRepository
	EmployeeRepository
	ChangeRequestRepository
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RoomLocker serializes check-then-write sections on one room.
type RoomLocker interface {
	Lock(ctx context.Context, roomID int64) (unlock func(), err error)
}

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error
}

type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	DeleteBookingRow(ctx context.Context, bookingID int64) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status, paymentStatus string) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, in models.CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) (*models.Page[*models.Booking], error)
	DirectUpdate(ctx context.Context, actor models.Actor, id int64, patch models.BookingPatch) (*models.Booking, error)
	DeleteBooking(ctx context.Context, actor models.Actor, id int64) error
	MarkPaid(ctx context.Context, actor models.Actor, id int64) (*models.Booking, error)
}

type ChangeRequestService interface {
	RequestUpdate(ctx context.Context, actor models.Actor, bookingID int64, in models.UpdateRequestInput) (*models.ChangeRequest, error)
	RequestCancellation(ctx context.Context, actor models.Actor, bookingID int64, reason string) (*models.ChangeRequest, error)
	ListChangeRequests(ctx context.Context, actor models.Actor, filter models.ChangeRequestFilter) (*models.Page[*models.ChangeRequest], error)
	GetChangeRequest(ctx context.Context, actor models.Actor, id int64) (*models.ChangeRequest, error)
	Conflicts(ctx context.Context, actor models.Actor, id int64) ([]*models.Booking, error)
	Approve(ctx context.Context, actor models.Actor, id int64) (*models.ChangeRequest, error)
	Disapprove(ctx context.Context, actor models.Actor, id int64, reason string) (*models.ChangeRequest, error)
}

type StatisticsService interface {
	BookingStatistics(ctx context.Context, actor models.Actor, startDate, endDate, groupBy string) ([]models.StatisticsRow, error)
}

type RoomService interface {
	CreateRoom(ctx context.Context, actor models.Actor, in models.RoomInput) (*models.Room, error)
	UpdateRoom(ctx context.Context, actor models.Actor, id int64, in models.RoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, actor models.Actor, id int64) error
	GetRoom(ctx context.Context, id int64) (*models.RoomWithBookings, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) (*models.Page[*models.RoomWithBookings], error)
}

type CustomerService interface {
	GetCustomer(ctx context.Context, actor models.Actor, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context, actor models.Actor, filter models.CustomerFilter) (*models.Page[*models.Customer], error)
	UpdateCustomer(ctx context.Context, actor models.Actor, id int64, patch models.CustomerPatch) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, actor models.Actor, id int64) error
}

type EmployeeService interface {
	ListEmployees(ctx context.Context, actor models.Actor) ([]*models.Employee, error)
	AddEmployee(ctx context.Context, actor models.Actor, in models.EmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, actor models.Actor, id int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, actor models.Actor, id int64, patch models.EmployeePatch) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, actor models.Actor, id int64) error
}

type AuthService interface {
	Signup(ctx context.Context, in models.SignupInput) (*models.AuthResult, error)
	Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error)
	Authenticate(token string) (models.Actor, error)
	ChangePassword(ctx context.Context, actor models.Actor, in models.ChangePasswordInput) error
}
