// Package access holds the permission policy of the booking core.
// Check is a pure function of the operation, the caller and the resource owner.
package access

import (
	"slices"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"
)

type Operation string

const (
	CreateBooking              Operation = "create_booking"
	ViewBooking                Operation = "view_booking"
	ListBookings               Operation = "list_bookings"
	UpdateBooking              Operation = "update_booking"
	DeleteBooking              Operation = "delete_booking"
	MarkBookingPaid            Operation = "mark_booking_paid"
	RequestBookingChange       Operation = "request_booking_change"
	RequestBookingCancellation Operation = "request_booking_cancellation"
	ListChangeRequests         Operation = "list_change_requests"
	ViewChangeRequest          Operation = "view_change_request"
	ApproveChangeRequest       Operation = "approve_change_request"
	DisapproveChangeRequest    Operation = "disapprove_change_request"
	ViewStatistics             Operation = "view_statistics"
	ManageRooms                Operation = "manage_rooms"
	ListCustomers              Operation = "list_customers"
	ViewCustomer               Operation = "view_customer"
	UpdateCustomer             Operation = "update_customer"
	DeleteCustomer             Operation = "delete_customer"
	ChangePassword             Operation = "change_password"
	ManageEmployees            Operation = "manage_employees"
)

type rule struct {
	roles []string
	// ownerRoles may act only on resources they own.
	ownerRoles []string
}

var (
	staff    = []string{models.RoleManager, models.RoleAdmin}
	customer = []string{models.RoleCustomer}
	everyone = []string{models.RoleCustomer, models.RoleManager, models.RoleAdmin}
)

var policy = map[Operation]rule{
	CreateBooking:              {roles: staff, ownerRoles: customer},
	ViewBooking:                {roles: staff, ownerRoles: customer},
	ListBookings:               {roles: everyone},
	UpdateBooking:              {roles: staff},
	DeleteBooking:              {roles: staff, ownerRoles: customer},
	MarkBookingPaid:            {roles: staff, ownerRoles: customer},
	RequestBookingChange:       {ownerRoles: customer},
	RequestBookingCancellation: {ownerRoles: customer},
	ListChangeRequests:         {roles: staff},
	ViewChangeRequest:          {roles: staff, ownerRoles: customer},
	ApproveChangeRequest:       {roles: staff},
	DisapproveChangeRequest:    {roles: []string{models.RoleAdmin}},
	ViewStatistics:             {roles: []string{models.RoleManager}},
	ManageRooms:                {roles: staff},
	ListCustomers:              {roles: staff},
	ViewCustomer:               {roles: staff, ownerRoles: customer},
	UpdateCustomer:             {roles: staff, ownerRoles: customer},
	DeleteCustomer:             {roles: staff},
	ChangePassword:             {ownerRoles: everyone},
	ManageEmployees:            {roles: []string{models.RoleManager}},
}

// Check returns nil when actor may perform op on a resource owned by ownerID,
// and a Forbidden error otherwise. An ownerID <= 0 checks the role alone, so
// owner-scoped roles pass and must be re-checked once the owner is known.
func Check(op Operation, actor models.Actor, ownerID int64) error {
	r, ok := policy[op]
	if !ok {
		return domain.Forbidden("operation %s is not permitted", op)
	}

	if slices.Contains(r.roles, actor.Role) {
		return nil
	}

	if slices.Contains(r.ownerRoles, actor.Role) {
		if ownerID <= 0 || ownerID == actor.ID {
			return nil
		}
		return domain.Forbidden("%s may only %s for their own account", actor.Role, humanize(op))
	}

	return domain.Forbidden("role %s may not %s", displayRole(actor.Role), humanize(op))
}

func displayRole(role string) string {
	if role == "" {
		return "anonymous"
	}
	return role
}

func humanize(op Operation) string {
	return strings.ReplaceAll(string(op), "_", " ")
}
