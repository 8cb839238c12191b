package models

import "time"

type Customer struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Employee struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"` // Manager, Admin
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsStaff() bool {
	return IsStaffRole(a.Role)
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
