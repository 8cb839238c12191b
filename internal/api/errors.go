package api

import (
	"errors"
	"net/http"

	"hotelbooking/internal/auth"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/logging"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}

	switch domain.KindOf(err) {
	case domain.ErrValidation, domain.ErrInvalidState:
		return http.StatusBadRequest
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeServiceError maps an operation error to its status. Internal errors are logged, not shown.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logging.Ctx(r.Context(), s.logger).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, code, "internal server error")
		return
	}
	writeError(w, code, err.Error())
}
