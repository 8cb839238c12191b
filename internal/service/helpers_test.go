package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customerA = models.Actor{ID: 1, Role: models.RoleCustomer}
	manager   = models.Actor{ID: 100, Role: models.RoleManager}
	admin     = models.Actor{ID: 101, Role: models.RoleAdmin}
)

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error {
	return m.Called(ctx, taskType, bookingID, booking, status).Error(0)
}

// testClock is a settable clock. It starts well before the 2024 stays used in tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	db       *database.DB
	clock    *testClock
	events   *mockEventPublisher
	sync     *mockSyncWorker
	bookings *BookingService
	requests *ChangeRequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewDB(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	events := new(mockEventPublisher)
	events.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)
	worker := new(mockSyncWorker)
	worker.On("EnqueueTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	clock := newTestClock()
	deps := Deps{
		Repo:    db,
		Events:  events,
		Sync:    worker,
		Booking: config.BookingConfig{MaxAdvanceDays: 365},
		Now:     clock.Now,
	}

	return &fixture{
		db:       db,
		clock:    clock,
		events:   events,
		sync:     worker,
		bookings: NewBookingService(deps),
		requests: NewChangeRequestService(deps),
	}
}

func (f *fixture) room(t *testing.T, number string, price float64) *models.Room {
	t.Helper()
	r := &models.Room{RoomNumber: number, Type: models.RoomStandard, Price: price, Capacity: 2, Images: []string{}}
	require.NoError(t, f.db.CreateRoom(context.Background(), r))
	return r
}

func (f *fixture) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{FullName: name, Email: fmt.Sprintf("%s@example.com", name), PasswordHash: "x"}
	require.NoError(t, f.db.CreateCustomer(context.Background(), c))
	return c
}

func (f *fixture) book(t *testing.T, actor models.Actor, customerID, roomID int64, in, out string) *models.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), actor, models.CreateBookingInput{
		CustomerID: customerID,
		RoomID:     roomID,
		CheckIn:    in,
		CheckOut:   out,
	})
	require.NoError(t, err)
	return b
}

func asCustomer(c *models.Customer) models.Actor {
	return models.Actor{ID: c.ID, Role: models.RoleCustomer}
}

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
