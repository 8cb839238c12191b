package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// StatisticsService also renders the report as a workbook.
type StatisticsService interface {
	domain.StatisticsService
	ExportStatistics(ctx context.Context, actor models.Actor, startDate, endDate, groupBy string) (*bytes.Buffer, error)
}

// Services are the operations exposed over HTTP.
type Services struct {
	Auth           domain.AuthService
	Bookings       domain.BookingService
	ChangeRequests domain.ChangeRequestService
	Statistics     StatisticsService
	Rooms          domain.RoomService
	Customers      domain.CustomerService
	Employees      domain.EmployeeService
}

// HTTPServer exposes the booking API over JSON.
type HTTPServer struct {
	cfg    config.APIConfig
	svc    Services
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	srv := &HTTPServer{cfg: cfg, svc: svc, logger: logger}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	return srv
}

// Handler returns the root handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(newRateLimiter(s.cfg.RateLimit).Middleware)
	r.Use(s.authenticate)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/rooms", s.handleListRooms)
		r.Get("/rooms/{id}", s.handleGetRoom)

		r.Group(func(r chi.Router) {
			r.Use(requireActor)

			r.Post("/auth/password", s.handleChangePassword)

			r.Post("/rooms", s.handleCreateRoom)
			r.Put("/rooms/{id}", s.handleUpdateRoom)
			r.Delete("/rooms/{id}", s.handleDeleteRoom)

			r.Get("/customers", s.handleListCustomers)
			r.Get("/customers/{id}", s.handleGetCustomer)
			r.Put("/customers/{id}", s.handleUpdateCustomer)
			r.Delete("/customers/{id}", s.handleDeleteCustomer)

			r.Get("/employees", s.handleListEmployees)
			r.Post("/employees", s.handleAddEmployee)
			r.Get("/employees/{id}", s.handleGetEmployee)
			r.Put("/employees/{id}", s.handleUpdateEmployee)
			r.Delete("/employees/{id}", s.handleDeleteEmployee)

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", s.handleListBookings)
				r.Post("/", s.handleCreateBooking)
				r.Get("/{id}", s.handleGetBooking)
				r.Patch("/{id}", s.handleUpdateBooking)
				r.Delete("/{id}", s.handleDeleteBooking)
				r.Post("/{id}/pay", s.handleMarkPaid)
				r.Post("/{id}/change-requests", s.handleRequestChange)
				r.Post("/{id}/cancellation-requests", s.handleRequestCancellation)
			})

			r.Route("/change-requests", func(r chi.Router) {
				r.Get("/", s.handleListChangeRequests)
				r.Get("/{id}", s.handleGetChangeRequest)
				r.Get("/{id}/conflicts", s.handleConflicts)
				r.Post("/{id}/approve", s.handleApprove)
				r.Post("/{id}/disapprove", s.handleDisapprove)
			})

			r.Get("/statistics/bookings", s.handleStatistics)
			r.Get("/statistics/bookings/export", s.handleExportStatistics)
		})
	})

	return r
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return domain.Validation("invalid JSON body: %v", err)
	}
	return nil
}

// decodeOptionalJSON accepts an empty body and leaves v untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.Validation("invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
