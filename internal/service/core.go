package service

import (
	"context"
	"strings"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/events"
	"hotelbooking/internal/models"
	"hotelbooking/internal/repository"

	"github.com/rs/zerolog"
)

// Deps are the collaborators shared by the booking and change-request services.
type Deps struct {
	Repo    domain.Repository
	Locker  domain.RoomLocker
	Events  domain.EventPublisher
	Sync    domain.SyncWorker
	Booking config.BookingConfig
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zerolog.Logger
}

type core struct {
	repo         domain.Repository
	locker       domain.RoomLocker
	availability *AvailabilityChecker
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	cfg          config.BookingConfig
	now          func() time.Time
	logger       *zerolog.Logger
}

func newCore(d Deps) core {
	if d.Locker == nil {
		d.Locker = repository.NewMemoryRoomLocker(0)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	d.Logger = orNop(d.Logger)
	if d.Booking.MaxAdvanceDays <= 0 {
		d.Booking.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return core{
		repo:         d.Repo,
		locker:       d.Locker,
		availability: NewAvailabilityChecker(d.Repo),
		eventBus:     d.Events,
		sheetsWorker: d.Sync,
		cfg:          d.Booking,
		now:          d.Now,
		logger:       d.Logger,
	}
}

func orNop(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return logger
}

// withRoomLock runs fn while holding the room's check-then-write lock.
func (c *core) withRoomLock(ctx context.Context, roomID int64, fn func() error) error {
	unlock, err := c.locker.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (c *core) today() time.Time {
	return startOfDay(c.now())
}

// validateStay checks an interval about to be committed. keepCheckIn, when
// set, is the stored check-in that may stay in the past.
func (c *core) validateStay(checkIn, checkOut time.Time, keepCheckIn *time.Time) error {
	if !checkOut.After(checkIn) {
		return domain.Validation("checkOutDate must be after checkInDate")
	}

	today := c.today()
	if checkIn.Before(today) && (keepCheckIn == nil || !checkIn.Equal(*keepCheckIn)) {
		return domain.Validation("checkInDate cannot be in the past")
	}

	if maxDate := today.AddDate(0, 0, c.cfg.MaxAdvanceDays); checkIn.After(maxDate) {
		return domain.Validation("checkInDate cannot be more than %d days ahead", c.cfg.MaxAdvanceDays)
	}
	return nil
}

func (c *core) normalizePage(p models.Pagination) models.Pagination {
	return p.Normalize(c.cfg.DefaultPageSize, c.cfg.MaxPageSize)
}

func (c *core) publishBookingEvent(eventType string, booking models.Booking, actor models.Actor, requestID int64) {
	if c.eventBus == nil {
		return
	}

	changedBy := actor.Role
	if changedBy == "" {
		changedBy = "system"
	}

	payload := events.BookingEventPayload{
		BookingID:         booking.ID,
		CustomerID:        booking.CustomerID,
		RoomID:            booking.RoomID,
		CheckIn:           booking.CheckIn,
		CheckOut:          booking.CheckOut,
		TotalPrice:        booking.TotalPrice,
		Status:            booking.Status,
		PaymentStatus:     booking.PaymentStatus,
		ChangedBy:         changedBy,
		ChangedByID:       actor.ID,
		CausedByRequestID: requestID,
	}

	if err := c.eventBus.PublishJSON(eventType, payload); err != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (c *core) publishRequestEvent(eventType string, req models.ChangeRequest) {
	if c.eventBus == nil {
		return
	}

	payload := events.ChangeRequestEventPayload{
		RequestID:  req.ID,
		BookingID:  req.BookingID,
		CustomerID: req.CustomerID,
		Type:       req.Type,
		Status:     req.Status,
	}
	switch {
	case req.ReasonForDisapproval != nil:
		payload.Reason = *req.ReasonForDisapproval
	case req.CancellationReason != nil:
		payload.Reason = *req.CancellationReason
	}
	if req.ApprovedBy != nil {
		payload.DecidedBy = *req.ApprovedBy
	}

	if err := c.eventBus.PublishJSON(eventType, payload); err != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Int64("request_id", req.ID).Msg("publish event error")
	}
}

func (c *core) enqueueSync(ctx context.Context, booking models.Booking, taskType string) {
	if c.sheetsWorker == nil {
		return
	}

	var status string
	if taskType == models.SyncTaskUpdateStatus {
		status = booking.Status
	}

	if err := c.sheetsWorker.EnqueueTask(ctx, taskType, booking.ID, &booking, status); err != nil {
		c.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns it in UTC.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, domain.Validation("%s is required", field)
	}
	if t, err := time.Parse(models.DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, domain.Validation("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", field)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
