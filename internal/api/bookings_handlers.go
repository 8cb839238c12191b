package api

import (
	"net/http"

	"hotelbooking/internal/models"
)

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	filter, err := bookingFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	page, err := s.svc.Bookings.ListBookings(r.Context(), actor, filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	var in models.CreateBookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), actor, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.svc.Bookings.GetBooking(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var patch models.BookingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.svc.Bookings.DirectUpdate(r.Context(), actor, id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.svc.Bookings.DeleteBooking(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.svc.Bookings.MarkPaid(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRequestChange(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var in models.UpdateRequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	req, err := s.svc.ChangeRequests.RequestUpdate(r.Context(), actor, id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (s *HTTPServer) handleRequestCancellation(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var body reasonBody
	if err := decodeOptionalJSON(w, r, &body); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	req, err := s.svc.ChangeRequests.RequestCancellation(r.Context(), actor, id, body.Reason)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}
