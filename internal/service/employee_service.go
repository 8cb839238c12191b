package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"hotelbooking/internal/access"
	"hotelbooking/internal/auth"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

type EmployeeService struct {
	repo   employeeRepository
	logger *zerolog.Logger
}

// employeeRepository also reads customers, which share the login email space.
type employeeRepository interface {
	domain.EmployeeRepository
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
}

func NewEmployeeService(repo employeeRepository, logger *zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: orNop(logger)}
}

func (s *EmployeeService) ListEmployees(ctx context.Context, actor models.Actor) ([]*models.Employee, error) {
	if err := access.Check(access.ManageEmployees, actor, 0); err != nil {
		return nil, err
	}
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	return employees, nil
}

func (s *EmployeeService) AddEmployee(ctx context.Context, actor models.Actor, in models.EmployeeInput) (*models.Employee, error) {
	if err := access.Check(access.ManageEmployees, actor, 0); err != nil {
		return nil, err
	}
	if !models.IsStaffRole(in.Role) {
		return nil, domain.Validation("employee role must be Manager or Admin")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, domain.Validation("fullName is required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Validation("%s", err.Error())
	}

	e := &models.Employee{
		FullName:     name,
		Role:         in.Role,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("employee_id", e.ID).Str("role", e.Role).Int64("actor_id", actor.ID).Msg("employee added")
	return e, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, actor models.Actor, id int64) (*models.Employee, error) {
	if err := access.Check(access.ManageEmployees, actor, 0); err != nil {
		return nil, err
	}
	return s.repo.GetEmployee(ctx, id)
}

// UpdateEmployee applies the fields present in patch. A manager cannot
// change their own role.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, actor models.Actor, id int64, patch models.EmployeePatch) (*models.Employee, error) {
	if err := access.Check(access.ManageEmployees, actor, 0); err != nil {
		return nil, err
	}
	e, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName.Set {
		name := strings.TrimSpace(patch.FullName.Value)
		if name == "" {
			return nil, domain.Validation("fullName cannot be empty")
		}
		e.FullName = name
	}
	if patch.Role.Set && patch.Role.Value != e.Role {
		if !models.IsStaffRole(patch.Role.Value) {
			return nil, domain.Validation("employee role must be Manager or Admin")
		}
		if id == actor.ID {
			return nil, domain.Validation("managers cannot change their own role")
		}
		e.Role = patch.Role.Value
	}
	if patch.Email.Set {
		email, err := normalizeEmail(patch.Email.Value)
		if err != nil {
			return nil, err
		}
		if email != e.Email {
			if _, err := s.repo.GetCustomerByEmail(ctx, email); err == nil {
				return nil, domain.Conflict("email %s is already registered", email)
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		}
		e.Email = email
	}
	e.Phone = strings.TrimSpace(patch.Phone.Or(e.Phone))

	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("employee_id", e.ID).Str("role", e.Role).Int64("actor_id", actor.ID).Msg("employee updated")
	return e, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, actor models.Actor, id int64) error {
	if err := access.Check(access.ManageEmployees, actor, 0); err != nil {
		return err
	}
	if id == actor.ID {
		return domain.Validation("managers cannot delete their own account")
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("employee_id", id).Int64("actor_id", actor.ID).Msg("employee deleted")
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Validation("email %q is not valid", raw)
	}
	return email, nil
}
