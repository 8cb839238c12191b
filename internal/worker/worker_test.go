package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"hotelbooking/internal/database"
	"hotelbooking/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking(id int64) *models.Booking {
	return &models.Booking{
		ID:            id,
		CustomerID:    1,
		RoomID:        10,
		CheckIn:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		TotalPrice:    200,
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentUnpaid,
	}
}

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSheetsWorker(db, sheets, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	booking := testBooking(1)
	require.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskUpsert, booking.ID, booking, ""))

	task, ok := worker.tryLocalQueue()
	require.True(t, ok, "expected task in local queue")
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	assert.Equal(t, models.SyncCompleted, status)
	assert.Equal(t, 0, retryCount)
	assert.False(t, nextRetry.Valid)
	assert.Equal(t, 1, sheets.upsertCalls)
	assert.Equal(t, booking.TotalPrice, sheets.lastBooking.TotalPrice)
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("boom")}
	worker := NewSheetsWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}, nil)
	ctx := context.Background()

	require.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskUpsert, 2, testBooking(2), ""))
	task, ok := worker.tryLocalQueue()
	require.True(t, ok)
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	assert.Equal(t, models.SyncRetry, status)
	assert.Equal(t, 1, retryCount)
	require.True(t, nextRetry.Valid)
	assert.True(t, nextRetry.Time.After(time.Now()))

	// not due yet
	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessTaskFail_DeadLetter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("fatal")}
	worker := NewSheetsWorker(db, sheets, client, RetryPolicy{MaxRetries: 1}, nil)
	ctx := context.Background()

	require.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskDelete, 3, nil, ""))

	task, ok := worker.tryRedis(ctx)
	require.True(t, ok, "expected task in redis queue")
	worker.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	assert.Equal(t, models.SyncFailed, status)

	dead, err := client.LRange(ctx, worker.deadLetterKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, dead, 1)
	var deadTask models.SyncTask
	require.NoError(t, json.Unmarshal([]byte(dead[0]), &deadTask))
	assert.Equal(t, task.ID, deadTask.ID)

	n, err := worker.RequeueFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists(worker.deadLetterKey))

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestProcessTask_BadPayload(t *testing.T) {
	db := newTestDB(t)
	worker := NewSheetsWorker(db, &fakeSheets{}, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	task := models.SyncTask{TaskType: models.SyncTaskUpsert, BookingID: 9, Payload: "{"}
	require.NoError(t, db.CreateSyncTask(ctx, &task))
	worker.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	assert.Equal(t, models.SyncFailed, status)
}

func TestSheetsWorker_HandleSheetTask(t *testing.T) {
	sheets := &fakeSheets{}
	worker := NewSheetsWorker(nil, sheets, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		require.NoError(t, worker.handleSheetTask(ctx, models.SyncTaskUpsert, sheetTaskPayload{Booking: testBooking(1)}))
		assert.Equal(t, 1, sheets.upsertCalls)
	})

	t.Run("UpsertWithoutBooking", func(t *testing.T) {
		assert.Error(t, worker.handleSheetTask(ctx, models.SyncTaskUpsert, sheetTaskPayload{BookingID: 1}))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, worker.handleSheetTask(ctx, models.SyncTaskDelete, sheetTaskPayload{BookingID: 123}))
		assert.Equal(t, 1, sheets.deleteCalls)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		err := worker.handleSheetTask(ctx, models.SyncTaskUpdateStatus, sheetTaskPayload{
			BookingID:     123,
			Status:        models.StatusCancelled,
			PaymentStatus: models.PaymentRefundPending,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, sheets.statusCalls)
		assert.Equal(t, models.PaymentRefundPending, sheets.lastPayment)
	})

	t.Run("Unknown", func(t *testing.T) {
		assert.Error(t, worker.handleSheetTask(ctx, "resync_everything", sheetTaskPayload{BookingID: 1}))
	})
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 5*time.Second, policy.NextDelay(5))
	assert.Equal(t, time.Second, policy.NextDelay(0))
}

func TestRetryPolicyDefaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()
	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 2*time.Second, p.InitialDelay)
	assert.Equal(t, time.Minute, p.MaxDelay)
	assert.Equal(t, 2.0, p.BackoffFactor)
}

func TestSheetsWorker_EnqueueTask(t *testing.T) {
	db := newTestDB(t)
	worker := NewSheetsWorker(db, &fakeSheets{}, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	t.Run("ValidTask", func(t *testing.T) {
		assert.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskUpsert, 1, testBooking(1), ""))
	})

	t.Run("BookingIDFromBooking", func(t *testing.T) {
		require.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskUpdateStatus, 0, testBooking(7), models.StatusConfirmed))
		var last models.SyncTask
		for {
			task, ok := worker.tryLocalQueue()
			if !ok {
				break
			}
			last = task
		}
		assert.Equal(t, int64(7), last.BookingID)
		payload, err := worker.decodePayload(last.Payload)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentUnpaid, payload.PaymentStatus)
	})

	t.Run("InvalidTaskType", func(t *testing.T) {
		assert.Error(t, worker.EnqueueTask(ctx, "", 1, testBooking(1), ""))
	})

	t.Run("InvalidBookingID", func(t *testing.T) {
		assert.Error(t, worker.EnqueueTask(ctx, models.SyncTaskUpsert, 0, nil, ""))
	})
}

func TestSheetsWorker_StartStops(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSheetsWorker(db, sheets, nil, RetryPolicy{}, nil)
	worker.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, worker.EnqueueTask(ctx, models.SyncTaskDelete, 5, nil, ""))

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sheets.calls() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSheetsWorker_DecodePayload(t *testing.T) {
	worker := NewSheetsWorker(nil, nil, nil, RetryPolicy{}, nil)

	decoded, err := worker.decodePayload(`{"booking_id":123,"status":"Cancelled","payment_status":"RefundPending"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(123), decoded.BookingID)
	assert.Equal(t, "Cancelled", decoded.Status)
	assert.Equal(t, "RefundPending", decoded.PaymentStatus)

	_, err = worker.decodePayload(`invalid json`)
	assert.Error(t, err)
}

// Helpers

type fakeSheets struct {
	mu          sync.Mutex
	err         error
	upsertCalls int
	deleteCalls int
	statusCalls int
	lastBooking *models.Booking
	lastPayment string
}

func (f *fakeSheets) UpsertBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	f.lastBooking = b
	return f.err
}

func (f *fakeSheets) DeleteBookingRow(_ context.Context, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.err
}

func (f *fakeSheets) UpdateBookingStatus(_ context.Context, _ int64, _, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	f.lastPayment = paymentStatus
	return f.err
}

func (f *fakeSheets) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsertCalls + f.deleteCalls + f.statusCalls
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM sync_queue WHERE id = ?`, id)
	require.NoError(t, row.Scan(&status, &retryCount, &nextRetry))
	return status, retryCount, nextRetry
}
