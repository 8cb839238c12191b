package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("invalid id %q", raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validation("%s must be an integer", name)
	}
	return v, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validation("%s must be an integer", name)
	}
	return v, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, domain.Validation("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

func pagination(r *http.Request) (models.Pagination, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return models.Pagination{}, err
	}
	size, err := queryInt(r, "pageSize")
	if err != nil {
		return models.Pagination{}, err
	}
	return models.Pagination{Page: page, PageSize: size}, nil
}

func bookingFilter(r *http.Request) (models.BookingFilter, error) {
	var (
		f   models.BookingFilter
		err error
	)
	if f.Pagination, err = pagination(r); err != nil {
		return f, err
	}
	if f.CustomerID, err = queryInt64(r, "customerId"); err != nil {
		return f, err
	}
	if f.RoomID, err = queryInt64(r, "roomId"); err != nil {
		return f, err
	}
	if f.CheckInFrom, err = queryDate(r, "checkInFrom"); err != nil {
		return f, err
	}
	if f.CheckOutTo, err = queryDate(r, "checkOutTo"); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.Status = strings.TrimSpace(q.Get("status"))
	f.PaymentStatus = strings.TrimSpace(q.Get("paymentStatus"))
	f.Sort = strings.TrimSpace(q.Get("sort"))
	return f, nil
}

func changeRequestFilter(r *http.Request) (models.ChangeRequestFilter, error) {
	var (
		f   models.ChangeRequestFilter
		err error
	)
	if f.Pagination, err = pagination(r); err != nil {
		return f, err
	}
	if f.CustomerID, err = queryInt64(r, "customerId"); err != nil {
		return f, err
	}
	if f.BookingID, err = queryInt64(r, "bookingId"); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.Status = strings.TrimSpace(q.Get("status"))
	f.Type = strings.TrimSpace(q.Get("type"))
	return f, nil
}

func roomFilter(r *http.Request) (models.RoomFilter, error) {
	var (
		f   models.RoomFilter
		err error
	)
	if f.Pagination, err = pagination(r); err != nil {
		return f, err
	}
	if f.CapacityGte, err = queryInt(r, "capacityGte"); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.Type = strings.TrimSpace(q.Get("type"))
	f.Query = strings.TrimSpace(q.Get("q"))
	return f, nil
}
