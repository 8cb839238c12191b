package service

import (
	"context"
	"fmt"
	"strings"

	"hotelbooking/internal/access"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/events"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/models"
)

// ChangeRequestService runs the request -> review workflow for customer
// modifications and cancellations of their bookings.
type ChangeRequestService struct {
	core
}

func NewChangeRequestService(deps Deps) *ChangeRequestService {
	return &ChangeRequestService{core: newCore(deps)}
}

// loadOwnBooking loads a booking the customer is about to file a request against.
func (s *ChangeRequestService) loadOwnBooking(ctx context.Context, op access.Operation, actor models.Actor, bookingID int64) (*models.Booking, error) {
	if err := access.Check(op, actor, 0); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(op, actor, booking.CustomerID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *ChangeRequestService) ensureNoPending(ctx context.Context, bookingID int64) error {
	pending, err := s.repo.HasPendingChangeRequest(ctx, bookingID)
	if err != nil {
		return err
	}
	if pending {
		return domain.Conflict("booking %d already has a pending change request", bookingID)
	}
	return nil
}

func (s *ChangeRequestService) RequestUpdate(ctx context.Context, actor models.Actor, bookingID int64, in models.UpdateRequestInput) (*models.ChangeRequest, error) {
	booking, err := s.loadOwnBooking(ctx, access.RequestBookingChange, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusConfirmed && booking.Status != models.StatusCheckedIn {
		return nil, domain.Conflict("booking %d is %s and cannot be changed", bookingID, booking.Status)
	}

	if in.RoomID <= 0 {
		return nil, domain.Validation("requestedRoomId is required")
	}
	checkIn, err := parseDate("requestedCheckInDate", in.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate("requestedCheckOutDate", in.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := s.validateStay(checkIn, checkOut, nil); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetRoom(ctx, in.RoomID); err != nil {
		return nil, err
	}
	if err := s.ensureNoPending(ctx, bookingID); err != nil {
		return nil, err
	}

	roomID := in.RoomID
	req := &models.ChangeRequest{
		BookingID:         booking.ID,
		CustomerID:        booking.CustomerID,
		Type:              models.ChangeTypeUpdate,
		RequestedRoomID:   &roomID,
		RequestedCheckIn:  &checkIn,
		RequestedCheckOut: &checkOut,
		Status:            models.RequestPending,
	}
	return s.submit(ctx, req)
}

func (s *ChangeRequestService) RequestCancellation(ctx context.Context, actor models.Actor, bookingID int64, reason string) (*models.ChangeRequest, error) {
	booking, err := s.loadOwnBooking(ctx, access.RequestBookingCancellation, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.StatusCancelled || booking.Status == models.StatusCompleted {
		return nil, domain.Conflict("booking %d is %s, nothing to cancel", bookingID, booking.Status)
	}
	if err := s.ensureNoPending(ctx, bookingID); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = models.DefaultReason
	}

	req := &models.ChangeRequest{
		BookingID:          booking.ID,
		CustomerID:         booking.CustomerID,
		Type:               models.ChangeTypeCancel,
		CancellationReason: &reason,
		Status:             models.RequestPending,
	}
	return s.submit(ctx, req)
}

func (s *ChangeRequestService) submit(ctx context.Context, req *models.ChangeRequest) (*models.ChangeRequest, error) {
	req.CreatedAt = s.now().UTC()
	if err := s.repo.CreateChangeRequest(ctx, req); err != nil {
		return nil, err
	}

	metrics.IncChangeRequest(req.Type)
	s.logger.Info().
		Int64("request_id", req.ID).
		Int64("booking_id", req.BookingID).
		Str("type", req.Type).
		Msg("change request submitted")

	s.publishRequestEvent(events.EventChangeRequestSubmitted, *req)
	return req, nil
}

func (s *ChangeRequestService) ListChangeRequests(ctx context.Context, actor models.Actor, filter models.ChangeRequestFilter) (*models.Page[*models.ChangeRequest], error) {
	if err := access.Check(access.ListChangeRequests, actor, 0); err != nil {
		return nil, err
	}
	switch filter.Status {
	case "", models.RequestPending, models.RequestApproved, models.RequestDisapproved:
	default:
		return nil, domain.Validation("unknown change request status %q", filter.Status)
	}
	switch filter.Type {
	case "", models.ChangeTypeUpdate, models.ChangeTypeCancel:
	default:
		return nil, domain.Validation("unknown change request type %q", filter.Type)
	}
	filter.Pagination = s.normalizePage(filter.Pagination)

	items, total, err := s.repo.ListChangeRequests(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.ChangeRequest{}
	}
	return &models.Page[*models.ChangeRequest]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *ChangeRequestService) GetChangeRequest(ctx context.Context, actor models.Actor, id int64) (*models.ChangeRequest, error) {
	req, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(access.ViewChangeRequest, actor, req.CustomerID); err != nil {
		return nil, err
	}
	return req, nil
}

// Conflicts lists the Confirmed bookings that currently overlap the slot an
// Update request asks for. Cancel requests have none.
func (s *ChangeRequestService) Conflicts(ctx context.Context, actor models.Actor, id int64) ([]*models.Booking, error) {
	if err := access.Check(access.ListChangeRequests, actor, 0); err != nil {
		return nil, err
	}
	req, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Type != models.ChangeTypeUpdate || !hasRequestedSlot(req) {
		return []*models.Booking{}, nil
	}
	return s.availability.Conflicts(ctx, *req.RequestedRoomID, *req.RequestedCheckIn, *req.RequestedCheckOut, req.BookingID)
}

func hasRequestedSlot(req *models.ChangeRequest) bool {
	return req.RequestedRoomID != nil && req.RequestedCheckIn != nil && req.RequestedCheckOut != nil
}

// Approve applies a pending request to its booking.
//
// For an Update, bookings on the requested room that overlap the requested
// slot and were created after the request was filed make approval fail: the
// request is disapproved and Conflict is returned. Overlapping bookings that
// already existed when the request was filed are cancelled with a refund once
// the booking has moved.
func (s *ChangeRequestService) Approve(ctx context.Context, actor models.Actor, id int64) (*models.ChangeRequest, error) {
	if err := access.Check(access.ApproveChangeRequest, actor, 0); err != nil {
		return nil, err
	}

	req, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, domain.Conflict("change request %d has already been decided", id)
	}

	booking, err := s.repo.GetBooking(ctx, req.BookingID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrNotFound {
			s.autoDisapprove(ctx, req, fmt.Sprintf("Booking %d no longer exists", req.BookingID))
		}
		return nil, err
	}

	switch req.Type {
	case models.ChangeTypeUpdate:
		return s.approveUpdate(ctx, actor, req, booking)
	case models.ChangeTypeCancel:
		return s.approveCancel(ctx, actor, req, booking)
	default:
		return nil, domain.InvalidState("change request %d has unknown type %q", id, req.Type)
	}
}

func (s *ChangeRequestService) approveUpdate(ctx context.Context, actor models.Actor, req *models.ChangeRequest, booking *models.Booking) (*models.ChangeRequest, error) {
	if !hasRequestedSlot(req) {
		return nil, domain.InvalidState("update request %d has no requested room or dates", req.ID)
	}
	if booking.Status != models.StatusConfirmed && booking.Status != models.StatusCheckedIn {
		s.autoDisapprove(ctx, req, fmt.Sprintf("Booking is %s", booking.Status))
		return nil, domain.Conflict("booking %d is %s and cannot be changed", booking.ID, booking.Status)
	}

	roomID := *req.RequestedRoomID
	checkIn, checkOut := *req.RequestedCheckIn, *req.RequestedCheckOut

	updated := *booking
	var cancelled []*models.Booking

	err := s.withRoomLock(ctx, roomID, func() error {
		room, err := s.repo.GetRoom(ctx, roomID)
		if err != nil {
			if domain.KindOf(err) == domain.ErrNotFound {
				s.autoDisapprove(ctx, req, fmt.Sprintf("Requested room %d no longer exists", roomID))
			}
			return err
		}

		conflicts, err := s.availability.Conflicts(ctx, roomID, checkIn, checkOut, booking.ID)
		if err != nil {
			return err
		}
		for _, c := range conflicts {
			// A booking that entered the slot after the request was filed,
			// by creation or by a later edit, wins over the request.
			if c.CreatedAt.After(req.CreatedAt) || c.UpdatedAt.After(req.CreatedAt) {
				metrics.IncConflict("approve")
				s.autoDisapprove(ctx, req, fmt.Sprintf("Requested room %s is no longer available: booked by booking %d", room.RoomNumber, c.ID))
				return domain.Conflict("room %s is no longer available for the requested dates", room.RoomNumber)
			}
		}

		updated.RoomID = roomID
		updated.CheckIn = checkIn
		updated.CheckOut = checkOut
		updated.TotalPrice = CalculatePrice(room.Price, checkIn, checkOut)

		if err := s.apply(ctx, req, actor, &updated, conflicts); err != nil {
			return err
		}
		cancelled = conflicts
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncDecision("approved")
	metrics.AddCascadeCancellations(len(cancelled))
	s.logger.Info().
		Int64("request_id", req.ID).
		Int64("booking_id", updated.ID).
		Int64("room_id", updated.RoomID).
		Int("cascade_cancelled", len(cancelled)).
		Int64("approved_by", actor.ID).
		Msg("update request approved")

	s.publishRequestEvent(events.EventChangeRequestApproved, *req)
	s.publishBookingEvent(events.EventBookingUpdated, updated, actor, req.ID)
	s.enqueueSync(ctx, updated, models.SyncTaskUpsert)
	for _, victim := range cancelled {
		s.publishBookingEvent(events.EventBookingCascadeCancelled, *victim, actor, req.ID)
		s.enqueueSync(ctx, *victim, models.SyncTaskUpdateStatus)
	}

	return req, nil
}

// apply approves req and persists its effects in a single transaction:
// the rewritten booking and the cascade cancellation of victims.
func (s *ChangeRequestService) apply(ctx context.Context, req *models.ChangeRequest, actor models.Actor, booking *models.Booking, victims []*models.Booking) error {
	decided := *req
	now := s.now().UTC()
	decided.Status = models.RequestApproved
	decided.ApprovedBy = &actor.ID
	decided.ApprovedAt = &now
	decided.ReasonForDisapproval = nil

	ids := make([]int64, 0, len(victims))
	for _, v := range victims {
		ids = append(ids, v.ID)
	}
	if err := s.repo.ApplyChangeRequest(ctx, &decided, booking, ids); err != nil {
		return err
	}
	*req = decided

	for _, v := range victims {
		v.Status = models.StatusCancelled
		v.PaymentStatus = models.PaymentRefundPending
		v.UpdatedAt = booking.UpdatedAt
		s.logger.Warn().
			Int64("booking_id", v.ID).
			Int64("caused_by_booking_id", booking.ID).
			Msg("booking cancelled by cascade")
	}
	return nil
}

func (s *ChangeRequestService) approveCancel(ctx context.Context, actor models.Actor, req *models.ChangeRequest, booking *models.Booking) (*models.ChangeRequest, error) {
	cancelled := *booking
	cancelled.Status = models.StatusCancelled
	cancelled.PaymentStatus = models.PaymentRefundPending
	if err := s.apply(ctx, req, actor, &cancelled, nil); err != nil {
		return nil, err
	}
	*booking = cancelled

	metrics.IncDecision("approved")
	s.logger.Info().
		Int64("request_id", req.ID).
		Int64("booking_id", booking.ID).
		Int64("approved_by", actor.ID).
		Msg("cancellation request approved")

	s.publishRequestEvent(events.EventChangeRequestApproved, *req)
	s.publishBookingEvent(events.EventBookingUpdated, *booking, actor, req.ID)
	s.enqueueSync(ctx, *booking, models.SyncTaskUpdateStatus)

	return req, nil
}

// Disapprove rejects a pending request. Only Admin may do this, unlike Approve.
func (s *ChangeRequestService) Disapprove(ctx context.Context, actor models.Actor, id int64, reason string) (*models.ChangeRequest, error) {
	if err := access.Check(access.DisapproveChangeRequest, actor, 0); err != nil {
		return nil, err
	}

	req, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, domain.Conflict("change request %d has already been decided", id)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = models.DefaultReason
	}
	if err := s.decide(ctx, req, models.RequestDisapproved, &actor.ID, &reason); err != nil {
		return nil, err
	}

	metrics.IncDecision("disapproved")
	s.logger.Info().Int64("request_id", id).Int64("disapproved_by", actor.ID).Msg("change request disapproved")
	s.publishRequestEvent(events.EventChangeRequestDisapproved, *req)
	return req, nil
}

// decide persists a terminal status. The write only succeeds while the request is Pending.
func (s *ChangeRequestService) decide(ctx context.Context, req *models.ChangeRequest, status string, approver *int64, reason *string) error {
	decided := *req
	now := s.now().UTC()
	decided.Status = status
	decided.ApprovedBy = approver
	decided.ApprovedAt = &now
	decided.ReasonForDisapproval = reason

	if err := s.repo.DecideChangeRequest(ctx, &decided); err != nil {
		return err
	}
	*req = decided
	return nil
}

// autoDisapprove closes a request that can no longer be applied, with a system
// reason and no approver. It is the only write on a failing Approve.
func (s *ChangeRequestService) autoDisapprove(ctx context.Context, req *models.ChangeRequest, reason string) {
	if err := s.decide(ctx, req, models.RequestDisapproved, nil, &reason); err != nil {
		s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("auto-disapprove failed")
		return
	}

	metrics.IncDecision("auto_disapproved")
	s.logger.Warn().Int64("request_id", req.ID).Str("reason", reason).Msg("change request auto-disapproved")
	s.publishRequestEvent(events.EventChangeRequestDisapproved, *req)
}
