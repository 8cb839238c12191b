// Package seed creates the configured staff accounts on startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/internal/auth"
	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

// Employees creates every seed user whose email is not taken yet and returns how many were created.
// Existing accounts are left untouched, passwords included.
func Employees(ctx context.Context, repo domain.EmployeeRepository, users []config.SeedUser, logger *zerolog.Logger) (int, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := config.ValidateSeedUsers(users); err != nil {
		return 0, err
	}

	created := 0
	for _, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))

		_, err := repo.GetEmployeeByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("lookup seed user %s: %w", email, err)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return created, fmt.Errorf("seed user %s: %w", email, err)
		}

		e := &models.Employee{
			FullName:     strings.TrimSpace(u.FullName),
			Role:         u.Role,
			Email:        email,
			Phone:        strings.TrimSpace(u.Phone),
			PasswordHash: hash,
		}
		if err := repo.CreateEmployee(ctx, e); err != nil {
			return created, fmt.Errorf("create seed user %s: %w", email, err)
		}
		created++
		logger.Info().Int64("employee_id", e.ID).Str("email", email).Str("role", e.Role).Msg("seed employee created")
	}
	return created, nil
}
