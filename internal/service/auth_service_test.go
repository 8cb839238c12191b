package service

import (
	"context"
	"testing"

	"hotelbooking/internal/auth"
	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"
	"hotelbooking/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) *AuthService {
	logger := zerolog.Nop()
	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", Issuer: "hotelbooking-test"})
	return NewAuthService(f.db, tokens, repository.NewMemoryAttemptLimiter(), &logger)
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	f := newFixture(t)
	s := newAuthService(f)
	ctx := context.Background()

	res, err := s.Signup(ctx, models.SignupInput{FullName: "Alice", Email: "Alice@Example.com", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, res.Actor.Role)
	assert.NotEmpty(t, res.Token)

	actor, err := s.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Actor, actor)

	_, err = s.Signup(ctx, models.SignupInput{FullName: "Alice", Email: "alice@example.com", Password: "wonderland"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	login, err := s.Login(ctx, models.LoginInput{Email: "ALICE@example.com", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, res.Actor.ID, login.Actor.ID)

	_, err = s.Login(ctx, models.LoginInput{Email: "alice@example.com", Password: "wrong-one"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = s.Login(ctx, models.LoginInput{Email: "nobody@example.com", Password: "wonderland"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_EmployeeLogin(t *testing.T) {
	f := newFixture(t)
	s := newAuthService(f)
	ctx := context.Background()

	hash, err := auth.HashPassword("manager")
	require.NoError(t, err)
	require.NoError(t, f.db.CreateEmployee(ctx, &models.Employee{FullName: "M", Role: models.RoleManager, Email: "manager@manager.com", PasswordHash: hash}))

	res, err := s.Login(ctx, models.LoginInput{Email: "manager@manager.com", Password: "manager"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, res.Actor.Role)

	// Staff addresses are taken for signup as well.
	_, err = s.Signup(ctx, models.SignupInput{FullName: "X", Email: "manager@manager.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthService_Validation(t *testing.T) {
	f := newFixture(t)
	s := newAuthService(f)
	ctx := context.Background()

	_, err := s.Signup(ctx, models.SignupInput{FullName: "A", Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Signup(ctx, models.SignupInput{Email: "a@example.com", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Login(ctx, models.LoginInput{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Authenticate("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_LoginThrottle(t *testing.T) {
	f := newFixture(t)
	s := newAuthService(f)
	ctx := context.Background()

	for i := 0; i < loginAttemptLimit; i++ {
		_, err := s.Login(ctx, models.LoginInput{Email: "eve@example.com", Password: "guess"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}
	_, err := s.Login(ctx, models.LoginInput{Email: "eve@example.com", Password: "guess"})
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	s := newAuthService(f)
	ctx := context.Background()

	res, err := s.Signup(ctx, models.SignupInput{FullName: "Dana", Email: "dana@example.com", Password: "first-pass"})
	require.NoError(t, err)

	err = s.ChangePassword(ctx, res.Actor, models.ChangePasswordInput{CurrentPassword: "wrong-pass", NewPassword: "second-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	err = s.ChangePassword(ctx, res.Actor, models.ChangePasswordInput{NewPassword: "second-pass"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = s.ChangePassword(ctx, res.Actor, models.ChangePasswordInput{CurrentPassword: "first-pass", NewPassword: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = s.ChangePassword(ctx, models.Actor{}, models.ChangePasswordInput{CurrentPassword: "first-pass", NewPassword: "second-pass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, s.ChangePassword(ctx, res.Actor, models.ChangePasswordInput{CurrentPassword: "first-pass", NewPassword: "second-pass"}))
	_, err = s.Login(ctx, models.LoginInput{Email: "dana@example.com", Password: "first-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = s.Login(ctx, models.LoginInput{Email: "dana@example.com", Password: "second-pass"})
	require.NoError(t, err)

	hash, err := auth.HashPassword("manager")
	require.NoError(t, err)
	e := &models.Employee{FullName: "M", Role: models.RoleManager, Email: "m@hotel.com", PasswordHash: hash}
	require.NoError(t, f.db.CreateEmployee(ctx, e))
	staff := models.Actor{ID: e.ID, Role: e.Role}

	require.NoError(t, s.ChangePassword(ctx, staff, models.ChangePasswordInput{CurrentPassword: "manager", NewPassword: "manager-2"}))
	login, err := s.Login(ctx, models.LoginInput{Email: "m@hotel.com", Password: "manager-2"})
	require.NoError(t, err)
	assert.Equal(t, staff, login.Actor)

	// удалённый сотрудник со старым токеном
	err = s.ChangePassword(ctx, models.Actor{ID: 999, Role: models.RoleAdmin}, models.ChangePasswordInput{CurrentPassword: "x", NewPassword: "manager-3"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
