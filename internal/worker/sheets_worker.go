package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// sheetTaskPayload is persisted in SyncTask.Payload as JSON.
type sheetTaskPayload struct {
	BookingID     int64           `json:"booking_id"`
	Booking       *models.Booking `json:"booking,omitempty"`
	Status        string          `json:"status,omitempty"`
	PaymentStatus string          `json:"payment_status,omitempty"`
}

// SheetsWorker consumes sync_queue tasks and mirrors them to the bookings sheet.
// Tasks are persisted first; redis or the local channel only wake the loop up
// sooner, the database poll is the source of truth.
type SheetsWorker struct {
	db            *database.DB
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *zerolog.Logger
}

func NewSheetsWorker(db *database.DB, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SheetsWorker{
		db:            db,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry.withDefaults(),
		queue:         make(chan models.SyncTask, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// EnqueueTask persists the task and schedules it via redis or the in-memory queue.
func (w *SheetsWorker) EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error {
	if taskType == "" {
		return errors.New("task type is required")
	}
	if bookingID == 0 && (booking == nil || booking.ID == 0) {
		return errors.New("booking id is required")
	}

	payload := sheetTaskPayload{
		BookingID: bookingID,
		Booking:   booking,
		Status:    status,
	}
	if payload.BookingID == 0 {
		payload.BookingID = booking.ID
	}
	if booking != nil {
		payload.PaymentStatus = booking.PaymentStatus
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	syncTask := models.SyncTask{
		TaskType:  taskType,
		BookingID: payload.BookingID,
		Payload:   string(payloadBytes),
		Status:    models.SyncPending,
	}
	if err := w.db.CreateSyncTask(ctx, &syncTask); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, syncTask); err != nil {
			w.logger.Warn().Err(err).Int64("task_id", syncTask.ID).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- syncTask:
	default:
		w.logger.Warn().Int64("task_id", syncTask.ID).Msg("in-memory queue full, task left to polling")
	}

	return nil
}

// Start runs the main loop until ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() == nil {
				w.logger.Error().Err(err).Msg("fetch pending sync tasks")
			}
			w.sleep(ctx)
			continue
		}
		if len(tasks) == 0 {
			w.sleep(ctx)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SheetsWorker) sleep(ctx context.Context) {
	t := time.NewTimer(w.pollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (w *SheetsWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return models.SyncTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	payload, err := w.decodePayload(task.Payload)
	if err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleSheetTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncCompleted, "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark completed")
	}
	metrics.IncSyncTask(models.SyncCompleted)
}

func (w *SheetsWorker) handleSheetTask(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	switch taskType {
	case models.SyncTaskUpsert:
		if payload.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.UpsertBooking(ctx, payload.Booking)
	case models.SyncTaskDelete:
		if payload.BookingID == 0 {
			return errors.New("booking id missing")
		}
		return w.sheets.DeleteBookingRow(ctx, payload.BookingID)
	case models.SyncTaskUpdateStatus:
		if payload.BookingID == 0 || payload.Status == "" {
			return errors.New("booking id or status missing")
		}
		return w.sheets.UpdateBookingStatus(ctx, payload.BookingID, payload.Status, payload.PaymentStatus)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.failTask(ctx, task, cause)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncRetry, cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark retry")
	}
	metrics.IncSyncTask(models.SyncRetry)
	w.logger.Warn().Err(cause).
		Int64("task_id", task.ID).
		Int("attempt", attempt).
		Dur("next_delay", nextDelay).
		Msg("sheets task will be retried")
}

func (w *SheetsWorker) failTask(ctx context.Context, task *models.SyncTask, cause error) {
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncFailed, cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark failed")
	}
	metrics.IncSyncTask(models.SyncFailed)
	w.logger.Error().Err(cause).Int64("task_id", task.ID).Int64("booking_id", task.BookingID).Msg("sheets task failed")
	w.pushDeadLetter(ctx, task)
}

// RequeueFailed moves failed tasks back to pending and clears the dead-letter list.
func (w *SheetsWorker) RequeueFailed(ctx context.Context) (int64, error) {
	n, err := w.db.RequeueFailedSyncTasks(ctx)
	if err != nil {
		return 0, err
	}
	if w.redis != nil {
		if err := w.redis.Del(ctx, w.deadLetterKey).Err(); err != nil {
			w.logger.Warn().Err(err).Msg("clear deadletter list")
		}
	}
	w.logger.Info().Int64("tasks", n).Msg("failed sheets tasks requeued")
	return n, nil
}

func (w *SheetsWorker) decodePayload(raw string) (sheetTaskPayload, error) {
	var payload sheetTaskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("deadletter push")
	}
}
