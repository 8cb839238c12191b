package service

import (
	"context"

	"hotelbooking/internal/access"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/events"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/models"
)

type BookingService struct {
	core
}

func NewBookingService(deps Deps) *BookingService {
	return &BookingService{core: newCore(deps)}
}

func (s *BookingService) CreateBooking(ctx context.Context, actor models.Actor, in models.CreateBookingInput) (*models.Booking, error) {
	checkIn, err := parseDate("checkInDate", in.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate("checkOutDate", in.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := s.validateStay(checkIn, checkOut, nil); err != nil {
		return nil, err
	}

	customerID := in.CustomerID
	if customerID == 0 && actor.IsCustomer() {
		customerID = actor.ID
	}
	if customerID <= 0 {
		return nil, domain.Validation("customerId is required")
	}
	if in.RoomID <= 0 {
		return nil, domain.Validation("roomId is required")
	}

	if err := access.Check(access.CreateBooking, actor, customerID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	room, err := s.repo.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:    customerID,
		RoomID:        room.ID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalPrice:    CalculatePrice(room.Price, checkIn, checkOut),
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentUnpaid,
	}

	err = s.withRoomLock(ctx, room.ID, func() error {
		available, err := s.availability.IsAvailable(ctx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !available {
			metrics.IncConflict("create")
			return domain.Conflict("room %s is not available for the selected dates", room.RoomNumber)
		}
		booking.CreatedAt = s.now().UTC()
		return s.repo.CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingsCreated()
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", booking.RoomID).
		Int64("customer_id", booking.CustomerID).
		Float64("total_price", booking.TotalPrice).
		Msg("booking created")

	s.publishBookingEvent(events.EventBookingCreated, *booking, actor, 0)
	s.enqueueSync(ctx, *booking, models.SyncTaskUpsert)

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor models.Actor, id int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(access.ViewBooking, actor, booking.CustomerID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) (*models.Page[*models.Booking], error) {
	if err := access.Check(access.ListBookings, actor, 0); err != nil {
		return nil, err
	}
	if actor.IsCustomer() {
		filter.CustomerID = actor.ID
	}
	if filter.Status != "" && !models.ValidBookingStatus(filter.Status) {
		return nil, domain.Validation("unknown booking status %q", filter.Status)
	}
	if filter.PaymentStatus != "" && !models.ValidPaymentStatus(filter.PaymentStatus) {
		return nil, domain.Validation("unknown payment status %q", filter.PaymentStatus)
	}
	filter.Pagination = s.normalizePage(filter.Pagination)

	items, total, err := s.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Booking{}
	}
	return &models.Page[*models.Booking]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// DirectUpdate applies a staff partial update. Only fields present in patch change.
func (s *BookingService) DirectUpdate(ctx context.Context, actor models.Actor, id int64, patch models.BookingPatch) (*models.Booking, error) {
	if err := access.Check(access.UpdateBooking, actor, 0); err != nil {
		return nil, err
	}

	current, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *current

	if patch.CustomerID.Set {
		if patch.CustomerID.Value <= 0 {
			return nil, domain.Validation("customerId must be positive")
		}
		if patch.CustomerID.Value != current.CustomerID {
			if _, err := s.repo.GetCustomer(ctx, patch.CustomerID.Value); err != nil {
				return nil, err
			}
		}
		updated.CustomerID = patch.CustomerID.Value
	}

	if patch.RoomID.Set {
		if patch.RoomID.Value <= 0 {
			return nil, domain.Validation("roomId must be positive")
		}
		updated.RoomID = patch.RoomID.Value
	}

	if patch.CheckIn.Set {
		if updated.CheckIn, err = parseDate("checkInDate", patch.CheckIn.Value); err != nil {
			return nil, err
		}
	}
	if patch.CheckOut.Set {
		if updated.CheckOut, err = parseDate("checkOutDate", patch.CheckOut.Value); err != nil {
			return nil, err
		}
	}
	if patch.CheckIn.Set || patch.CheckOut.Set {
		if err := s.validateStay(updated.CheckIn, updated.CheckOut, &current.CheckIn); err != nil {
			return nil, err
		}
	}

	if patch.Status.Set {
		if !models.ValidBookingStatus(patch.Status.Value) {
			return nil, domain.Validation("unknown booking status %q", patch.Status.Value)
		}
		if !models.StatusTransitionAllowed(current.Status, patch.Status.Value) {
			return nil, domain.Conflict("booking status cannot change from %s to %s", current.Status, patch.Status.Value)
		}
		updated.Status = patch.Status.Value
	}

	if patch.PaymentStatus.Set {
		if !models.ValidPaymentStatus(patch.PaymentStatus.Value) {
			return nil, domain.Validation("unknown payment status %q", patch.PaymentStatus.Value)
		}
		updated.PaymentStatus = patch.PaymentStatus.Value
	}

	if patch.TotalPrice.Set && patch.TotalPrice.Value < 0 {
		return nil, domain.Validation("totalPrice cannot be negative")
	}

	roomChanged := updated.RoomID != current.RoomID
	datesChanged := !updated.CheckIn.Equal(current.CheckIn) || !updated.CheckOut.Equal(current.CheckOut)

	var room *models.Room
	if roomChanged || datesChanged {
		if room, err = s.repo.GetRoom(ctx, updated.RoomID); err != nil {
			return nil, err
		}
		updated.TotalPrice = CalculatePrice(room.Price, updated.CheckIn, updated.CheckOut)
	} else if patch.TotalPrice.Set {
		updated.TotalPrice = patch.TotalPrice.Value
	}

	write := func() error {
		return s.repo.UpdateBooking(ctx, &updated)
	}

	if (roomChanged || datesChanged) && updated.Status == models.StatusConfirmed {
		err = s.withRoomLock(ctx, updated.RoomID, func() error {
			available, err := s.availability.IsAvailable(ctx, updated.RoomID, updated.CheckIn, updated.CheckOut, updated.ID)
			if err != nil {
				return err
			}
			if !available {
				metrics.IncConflict("update")
				return domain.Conflict("room %s is not available for the selected dates", room.RoomNumber)
			}
			return write()
		})
	} else {
		err = write()
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", updated.ID).
		Int64("actor_id", actor.ID).
		Bool("room_changed", roomChanged).
		Bool("dates_changed", datesChanged).
		Str("status", updated.Status).
		Msg("booking updated")

	s.publishBookingEvent(events.EventBookingUpdated, updated, actor, 0)
	s.enqueueSync(ctx, updated, models.SyncTaskUpsert)

	return &updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, actor models.Actor, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Check(access.DeleteBooking, actor, booking.CustomerID); err != nil {
		return err
	}
	if booking.Status == models.StatusCheckedIn || booking.Status == models.StatusCompleted {
		return domain.Forbidden("a %s booking cannot be deleted", booking.Status)
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("booking_id", id).Int64("actor_id", actor.ID).Msg("booking deleted")
	s.publishBookingEvent(events.EventBookingDeleted, *booking, actor, 0)
	s.enqueueSync(ctx, *booking, models.SyncTaskDelete)
	return nil
}

// MarkPaid moves an Unpaid booking to Paid.
func (s *BookingService) MarkPaid(ctx context.Context, actor models.Actor, id int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(access.MarkBookingPaid, actor, booking.CustomerID); err != nil {
		return nil, err
	}
	if booking.Status == models.StatusCancelled {
		return nil, domain.Conflict("booking %d is cancelled and cannot be paid", id)
	}
	if !models.PaymentTransitionAllowed(booking.PaymentStatus, models.PaymentPaid) {
		return nil, domain.Conflict("booking %d payment is already %s", id, booking.PaymentStatus)
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, booking.Status, models.PaymentPaid); err != nil {
		return nil, err
	}
	booking.PaymentStatus = models.PaymentPaid
	booking.UpdatedAt = s.now().UTC()

	s.logger.Info().Int64("booking_id", id).Int64("actor_id", actor.ID).Msg("booking paid")
	s.publishBookingEvent(events.EventBookingPaid, *booking, actor, 0)
	s.enqueueSync(ctx, *booking, models.SyncTaskUpdateStatus)

	return booking, nil
}
