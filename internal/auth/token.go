package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)

// Claims are the access token claims. Subject holds the actor id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for actor and returns it with its expiry.
func (m *TokenManager) Issue(actor models.Actor) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(actor.ID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse validates a token and returns the actor it was issued for.
func (m *TokenManager) Parse(raw string) (models.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || !models.ValidRole(claims.Role) {
		return models.Actor{}, ErrInvalidToken
	}
	return models.Actor{ID: id, Role: claims.Role}, nil
}
