// Package token issues and verifies the HS256 bearer tokens handed out at login.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"

	"github.com/semanticallynull/ecycle-backend/user"
)

// DefaultTTL matches the seven day session of the web client.
const DefaultTTL = 7 * 24 * time.Hour

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// CustomClaims are the non-registered claims carried by every token.
type CustomClaims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

func (c *CustomClaims) Validate(context.Context) error {
	if c.Role != user.RoleUser && c.Role != user.RoleAdmin {
		return errors.New("token has an unknown role")
	}
	return nil
}

type claims struct {
	CustomClaims
	jwt.RegisteredClaims
}

type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// Issue signs a token whose subject is the user id.
func (i *Issuer) Issue(u user.User) (string, error) {
	now := i.now()
	c := claims{
		CustomClaims: CustomClaims{Email: u.Email, Role: u.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(i.cfg.Secret))
}

// NewValidator builds the validator used by the HTTP auth middleware.
func NewValidator(cfg Config) (*validator.Validator, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	keyFunc := func(context.Context) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}
	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(30*time.Second),
	)
}
