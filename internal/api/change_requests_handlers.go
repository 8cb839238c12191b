package api

import (
	"fmt"
	"net/http"

	"hotelbooking/internal/export"
	"hotelbooking/internal/models"
)

func (s *HTTPServer) handleListChangeRequests(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	filter, err := changeRequestFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	page, err := s.svc.ChangeRequests.ListChangeRequests(r.Context(), actor, filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleGetChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	req, err := s.svc.ChangeRequests.GetChangeRequest(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleConflicts(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	bookings, err := s.svc.ChangeRequests.Conflicts(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": bookings})
}

func (s *HTTPServer) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	req, err := s.svc.ChangeRequests.Approve(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleDisapprove(w http.ResponseWriter, r *http.Request) {
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

	req, err := s.svc.ChangeRequests.Disapprove(r.Context(), actor, id, body.Reason)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	q := r.URL.Query()

	rows, err := s.svc.Statistics.BookingStatistics(r.Context(), actor, q.Get("startDate"), q.Get("endDate"), q.Get("groupBy"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": rows})
}

func (s *HTTPServer) handleExportStatistics(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	q := r.URL.Query()

	buf, err := s.svc.Statistics.ExportStatistics(r.Context(), actor, q.Get("startDate"), q.Get("endDate"), q.Get("groupBy"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("booking_statistics_%s_%s.xlsx", q.Get("startDate"), q.Get("endDate"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
