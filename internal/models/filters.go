package models

import "time"

// Pagination is the page window requested by a list call.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Normalize applies defaults and clamps the page size to maxSize.
func (p Pagination) Normalize(defaultSize, maxSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one window of a list result.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type BookingFilter struct {
	CustomerID    int64
	RoomID        int64
	CheckInFrom   *time.Time
	CheckOutTo    *time.Time
	Status        string
	PaymentStatus string
	Sort          string
	Pagination
}

type ChangeRequestFilter struct {
	Status     string
	CustomerID int64
	BookingID  int64
	Type       string
	Pagination
}

type RoomFilter struct {
	Type        string
	CapacityGte int
	Query       string
	Pagination
}

type CustomerFilter struct {
	Query string
	Pagination
}
