package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotelbooking/internal/access"
	"hotelbooking/internal/auth"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

type AuthService struct {
	repo    domain.Repository
	tokens  *auth.TokenManager
	limiter domain.AttemptLimiter
	logger  *zerolog.Logger
}

// NewAuthService wires signup and login. limiter may be nil to disable throttling.
func NewAuthService(repo domain.Repository, tokens *auth.TokenManager, limiter domain.AttemptLimiter, logger *zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, logger: orNop(logger)}
}

// Signup registers a customer account and logs it in.
func (s *AuthService) Signup(ctx context.Context, in models.SignupInput) (*models.AuthResult, error) {
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

	// сотрудник с тем же email тоже занимает адрес
	if _, err := s.repo.GetEmployeeByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("email %s is already registered", email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	c := &models.Customer{
		FullName:     name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		PasswordHash: hash,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("customer_id", c.ID).Msg("customer signed up")

	return s.issue(models.Actor{ID: c.ID, Role: models.RoleCustomer})
}

// Login checks customers first, then employees. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.Validation("email and password are required")
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, "login:"+email, loginAttemptLimit, loginAttemptWindow)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !ok {
			return nil, auth.ErrTooManyAttempts
		}
	}

	actor, hash, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(hash, in.Password) {
		s.logger.Debug().Str("email", email).Msg("login rejected")
		return nil, auth.ErrInvalidCredentials
	}

	return s.issue(actor)
}

func (s *AuthService) lookup(ctx context.Context, email string) (models.Actor, string, error) {
	c, err := s.repo.GetCustomerByEmail(ctx, email)
	if err == nil {
		return models.Actor{ID: c.ID, Role: models.RoleCustomer}, c.PasswordHash, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return models.Actor{}, "", err
	}

	e, err := s.repo.GetEmployeeByEmail(ctx, email)
	if err != nil {
		return models.Actor{}, "", err
	}
	return models.Actor{ID: e.ID, Role: e.Role}, e.PasswordHash, nil
}

// ChangePassword replaces the caller's own password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor models.Actor, in models.ChangePasswordInput) error {
	if err := access.Check(access.ChangePassword, actor, actor.ID); err != nil {
		return err
	}
	if in.CurrentPassword == "" {
		return domain.Validation("currentPassword is required")
	}

	var current string
	if actor.IsCustomer() {
		c, err := s.repo.GetCustomer(ctx, actor.ID)
		if err != nil {
			return err
		}
		current = c.PasswordHash
	} else {
		e, err := s.repo.GetEmployee(ctx, actor.ID)
		if err != nil {
			return err
		}
		current = e.PasswordHash
	}
	if !auth.CheckPassword(current, in.CurrentPassword) {
		return auth.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return domain.Validation("%s", err.Error())
	}
	if actor.IsCustomer() {
		err = s.repo.UpdateCustomerPassword(ctx, actor.ID, hash)
	} else {
		err = s.repo.UpdateEmployeePassword(ctx, actor.ID, hash)
	}
	if err != nil {
		return err
	}
	s.logger.Info().Int64("actor_id", actor.ID).Str("role", actor.Role).Msg("password changed")
	return nil
}

func (s *AuthService) Authenticate(token string) (models.Actor, error) {
	return s.tokens.Parse(token)
}

func (s *AuthService) issue(actor models.Actor) (*models.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(actor)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: token, ExpiresAt: expiresAt.Unix(), Actor: actor}, nil
}
